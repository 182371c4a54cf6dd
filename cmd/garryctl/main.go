package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/duscraft/garry/internal/tools/migrate"
	"github.com/duscraft/garry/internal/tools/seed"
)

func main() {
	root := &cobra.Command{
		Use:   "garryctl",
		Short: "Operations toolbox for the warranty service",
	}
	root.AddCommand(migrate.NewRootCommand(), seed.NewRootCommand())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
