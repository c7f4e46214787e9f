package main

import (
	"github.com/yukitake212/first-hackathon-product/cmd"
	"github.com/yukitake212/first-hackathon-product/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
