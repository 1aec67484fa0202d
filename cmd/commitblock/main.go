package main

import (
	"commitblock/internal/cli"
	"commitblock/internal/di"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// .env is optional; GITHUB_TOKEN may come from the environment directly.
	_ = godotenv.Load()
}

func main() {
	runner := &cli.Runner{Deps: cli.Deps{
		InitApp:     di.InitApp,
		InitToolkit: di.InitToolkit,
	}}
	os.Exit(runner.Execute(os.Args[1:]))
}
