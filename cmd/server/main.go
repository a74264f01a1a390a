package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "countdown-server",
	Short: "Ürün geri sayım sayacı backend'i",
	Long: "Ürün kataloğu, ürün başına satış geri sayımı ayarları ve " +
		"ürün sayfasını sunan HTTP sunucusu.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
