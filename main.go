package main

import (
	"github.com/zabuzafr/lparsync/cmd"
	"github.com/zabuzafr/lparsync/internal/log"
)

func main() {
	log.InitLogger()
	cmd.Execute()
}
