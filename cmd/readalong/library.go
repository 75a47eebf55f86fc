package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/readalong/internal/config"
	"github.com/verte-zerg/readalong/internal/report"
	"github.com/verte-zerg/readalong/internal/scoring"
	"github.com/verte-zerg/readalong/internal/store"
)

var (
	libraryTitle      string
	libraryDifficulty string
	libraryFile       string
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage saved paragraphs",
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Save a paragraph for later practice",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLibraryAddCmd,
	}
	addCmd.Flags().StringVar(&libraryTitle, "title", "", "paragraph title (default: first words)")
	addCmd.Flags().StringVar(&libraryDifficulty, "difficulty", "Custom", "difficulty label")
	addCmd.Flags().StringVar(&libraryFile, "file", "", "read the paragraph from a text file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved paragraphs",
		Args:  cobra.NoArgs,
		RunE:  runLibraryListCmd,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved paragraph",
		Args:  cobra.ExactArgs(1),
		RunE:  runLibraryRmCmd,
	}

	cmd.AddCommand(addCmd, listCmd, rmCmd)
	return cmd
}

func openLibrary() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runLibraryAddCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var text string
	switch {
	case libraryFile != "" && len(args) > 0:
		return fmt.Errorf("pass either text or --file, not both")
	case libraryFile != "":
		data, err := os.ReadFile(libraryFile)
		if err != nil {
			return fmt.Errorf("failed to read paragraph file: %w", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("paragraph text or --file is required")
	}
	text = strings.TrimSpace(text)
	if err := scoring.ValidateParagraph(text, cfg.MinChars); err != nil {
		return fmt.Errorf("invalid paragraph: %w", err)
	}

	st, closeFn, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeFn()
	id, err := st.AddParagraph(context.Background(), libraryTitle, text, libraryDifficulty)
	if err != nil {
		return fmt.Errorf("failed to save paragraph: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved paragraph %d. Practice it with: readalong --library %d\n", id, id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runLibraryListCmd(cmd *cobra.Command, _ []string) error {
	st, closeFn, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeFn()
	entries, err := st.ListParagraphs(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list paragraphs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		if _, err := fmt.Fprintln(out, "No saved paragraphs. Add one with: readalong library add"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			e.Difficulty,
			strconv.Itoa(len(strings.Fields(e.Text))),
			humanize.Time(e.AddedAt),
		})
	}
	report.Table(out, []string{"ID", "Title", "Difficulty", "Words", "Added"}, rows)
	return nil
}

func runLibraryRmCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid paragraph id %q", args[0])
	}
	st, closeFn, err := openLibrary()
	if err != nil {
		return err
	}
	defer closeFn()
	if err := st.DeleteParagraph(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete paragraph: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted paragraph %d.\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
