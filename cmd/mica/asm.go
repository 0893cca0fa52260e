package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/rv32"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] <file.s>",
	Short: "Assemble an RV32 assembly file",
	Long: "Assemble a .s file of the dialect mica emits. With --run the program\n" +
		"is executed and the process exits with its return value.",
	Args: cobra.ExactArgs(1),
	RunE: asmExecution,
}

func init() {
	asmCmd.Flags().Bool("run", false, "execute the assembled program")
	asmCmd.Flags().String("entry", "main", "entry symbol for --run")
	asmCmd.Flags().Int("max-steps", 0, "instruction budget before giving up (0 = default)")
}

func asmExecution(cmd *cobra.Command, args []string) error {
	execute, err := cmd.Flags().GetBool("run")
	if err != nil {
		return err
	}
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return err
	}
	maxSteps, err := cmd.Flags().GetInt("max-steps")
	if err != nil {
		return err
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	img, err := rv32.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if !execute {
		if !isQuiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "assembled %s\n", args[0])
		}
		return nil
	}

	machine := rv32.NewMachine(img)
	if maxSteps > 0 {
		machine.MaxSteps = maxSteps
	}
	result, err := machine.Run(entry)
	if err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s returned %d\n", entry, result)
	}
	os.Exit(int(uint32(result)) & 0xff)
	return nil
}
