package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jpalmerr/pasteboard/internal/client"
	"github.com/spf13/cobra"
)

// pasteCmd adds text to the bounded clipboard.
var pasteCmd = &cobra.Command{
	Use:   "paste [text]",
	Short: "Add text to the bounded clipboard",
	Long: `Add text to the bounded clipboard of a running server.

With no argument the text is read from stdin, so output can be piped in.
Once the clipboard is full the oldest entry is evicted.

Example:
  pasteboard paste "hello"
  git diff | pasteboard paste`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaste,
}

// copyCmd prints the bounded clipboard.
var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Print the bounded clipboard, oldest first",
	Long: `Print every entry of the bounded clipboard, oldest first.

With --last only the newest entry is printed, which is handy for piping.`,
	Args: cobra.NoArgs,
	RunE: runCopy,
}

// putCmd adds text to the keyed store.
var putCmd = &cobra.Command{
	Use:   "put [text]",
	Short: "Add text to the keyed store and print its id",
	Long: `Add text to the keyed store of a running server and print the
identifier it was stored under. With no argument the text is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPut,
}

// getCmd prints a keyed entry.
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the keyed entry with the given id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(pasteCmd, copyCmd, putCmd, getCmd)

	copyCmd.Flags().Bool("last", false, "print only the newest entry")
}

// newClient builds a client for the --server flag.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	serverURL, _ := cmd.Flags().GetString("server")
	return client.New(serverURL)
}

// readText returns the single argument, or all of stdin when none is given.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func runPaste(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Paste(ctxOf(cmd), text)
}

func runCopy(cmd *cobra.Command, args []string) error {
	last, _ := cmd.Flags().GetBool("last")

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.Copy(ctxOf(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if last {
		if len(entries) > 0 {
			fmt.Fprintln(out, entries[len(entries)-1].Data)
		}
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, e.Data)
	}
	return nil
}

func runPut(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	id, err := c.Submit(ctxOf(cmd), text)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	entry, err := c.Fetch(ctxOf(cmd), args[0])
	switch {
	case errors.Is(err, client.ErrNotFound):
		return fmt.Errorf("no entry with id %s", args[0])
	case errors.Is(err, client.ErrBadRequest):
		return fmt.Errorf("%q is not a valid id", args[0])
	case err != nil:
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), entry.Data)
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
