package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

const Logo = `
 ___ _ (_)_ ____ __ ____ _ _  _
(_-/ | | | '_ \ V  V / _' | || |
/__/_|_|_| .__/\_/\_/\__,_|\_, |
         |_|               |__/
`

var rootCmd = &cobra.Command{
	Use:   "slipway",
	Short: "Bootstrap dockerized deployments for web projects",
	Long: Logo + `
Slipway detects your project's framework, walks you through deployment
configuration, and generates the Docker, CI and server setup artifacts to
ship it to your own server.

Supported project types: Flask, Django, FastAPI, NestJS, Next.js, Nuxt,
Vue and React single-page apps.`,
	Version: Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
