package main

import (
	"fmt"

	"github.com/relunix/fatkernel/cmd/cmd"
	"github.com/relunix/fatkernel/internal/env"
)

func main() {
	PrintLogo()

	_ = cmd.Execute()
}

func PrintLogo() {
	fmt.Println("   __      _   _              _ ")
	fmt.Println("  / _| __ _| |_| | _____ _ __ | |")
	fmt.Println(" | |_ / _` | __| |/ / _ \\ '_ \\| |")
	fmt.Println(" |  _| (_| | |_|   <  __/ | | |_|")
	fmt.Println(" |_|  \\__,_|\\__|_|\\_\\___|_| |_(_)")
	fmt.Println()
	fmt.Println("FAT32 volume tool and xHCI bring-up driver")
	fmt.Println()
	fmt.Printf("Version:    %s\n", env.Version)
	fmt.Printf("Commit:     %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println()
}
