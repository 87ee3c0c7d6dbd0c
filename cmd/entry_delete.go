package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ministrylog/storage"

	"github.com/spf13/cobra"
)

var entryDeleteAll bool

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete entries by ID, or every entry with --all",
	Long: `Delete activity entries.

With --all every stored entry is removed. Before that, an interactive security
prompt requires typing exactly "Y". Plans and notes are kept.`,
	Example: `
  # Delete one entry
  ministrylog entry delete 4b1d7c52-2f0e-4d59-9d8e-2d8c7f0a9e11

  # Delete all entries (requires interactive confirmation)
  ministrylog entry delete --all
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if entryDeleteAll == (len(args) > 0) {
			return fmt.Errorf("pass either entry IDs or --all")
		}

		store, err := openStore(entryDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if entryDeleteAll {
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, "all entries")
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
			deleted, err := store.DeleteAllEntries()
			if err != nil {
				return err
			}
			fmt.Printf("Deleted entries: %d\n", deleted)
			return nil
		}

		deleted, missing := deleteEntries(store, args)
		fmt.Printf("Deleted entries: %d\n", deleted)
		if len(missing) > 0 {
			return fmt.Errorf("entries not found: %s", strings.Join(missing, ", "))
		}
		return nil
	},
}

type entryDeleter interface {
	DeleteEntry(id string) error
}

// deleteEntries removes each ID and collects the ones that do not exist.
// Other store errors are reported as missing as well, with the cause printed.
func deleteEntries(store entryDeleter, ids []string) (int, []string) {
	deleted := 0
	missing := make([]string, 0)
	for _, id := range ids {
		err := store.DeleteEntry(strings.TrimSpace(id))
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, storage.ErrEntryNotFound):
			missing = append(missing, id)
		default:
			fmt.Fprintf(os.Stderr, "Warning: delete %s: %v\n", id, err)
			missing = append(missing, id)
		}
	}
	return deleted, missing
}

func confirmDeletePrompt(input io.Reader, output io.Writer, what string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", what); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func init() {
	entryCmd.AddCommand(entryDeleteCmd)

	entryDeleteCmd.Flags().BoolVar(&entryDeleteAll, "all", false, "Delete every stored entry")
}
