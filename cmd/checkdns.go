package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slipway/pkg/config"
	"slipway/pkg/dnscheck"
)

var checkDNSCmd = &cobra.Command{
	Use:   "check-dns [PROJECT_PATH]",
	Short: "Check that the configured domain points at the server",
	Long: `Resolves the configured domain and compares its A records against the
deployment server's address. Mismatches and lookup failures are reported as
warnings; DNS propagation lag makes this check advisory only.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheckDNS,
}

func init() {
	rootCmd.AddCommand(checkDNSCmd)
}

func runCheckDNS(cmd *cobra.Command, args []string) {
	projectPath := resolveProjectPath(args)
	cfg := loadCacheOrExit(projectPath)

	if !cfg.Domain.Enabled {
		fmt.Println(warnStyle.Render("No domain configured; nothing to check."))
		return
	}

	checkDomain(cfg)
}

// checkDomain is advisory: a lookup failure or mismatch warns and returns,
// it never aborts the pipeline.
func checkDomain(cfg *config.CollectedConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := dnscheck.New().Check(ctx, cfg.Domain.Name, cfg.Server.Host)
	fmt.Println(domainAdvisory(result, err, cfg.Domain.Name, cfg.Server.Host))
}

func domainAdvisory(result *dnscheck.Result, err error, domain, serverHost string) string {
	if err != nil {
		return warnStyle.Render(fmt.Sprintf("Could not resolve %s (%v); skipping DNS check", domain, err))
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("A records for " + domain + ": "))
	b.WriteString(strings.Join(result.Records, ", "))
	b.WriteString("\n")
	if result.Match {
		b.WriteString(successStyle.Render(fmt.Sprintf("Domain %s points at %s", domain, serverHost)))
	} else {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Domain %s does not resolve to %s yet; DNS may still be propagating", domain, serverHost)))
	}
	return b.String()
}
