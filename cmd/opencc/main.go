package main

import (
	"fmt"
	"log"
	"os"
)

const usage = `usage: opencc <command> [flags]

commands:
  presets       list the built-in conversion presets
  materialize   write preset configs and dictionaries into a directory
  convert       convert a file or stdin with one preset
  watch         watch INPUT_DIR and convert new text files into OUTPUT_DIR
`

func main() {
	// 1. 初始化日志器
	logger := log.New(os.Stderr, "[OpenCC] ", log.LstdFlags|log.Lshortfile)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "presets":
		err = runPresets(os.Stdout)
	case "materialize":
		err = runMaterialize(args, logger)
	case "convert":
		err = runConvert(args, os.Stdin, os.Stdout, logger)
	case "watch":
		err = runWatch(logger)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s failed: %v", os.Args[1], err)
	}
}
