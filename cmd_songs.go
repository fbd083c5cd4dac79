package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mysxn/internal/errmsg"
	"github.com/llehouerou/mysxn/internal/song"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the songs in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the library with a JSON project file",
	Long:  "Replace the library with the songs of a JSON project file. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the library as a JSON project file",
	Long:  "Write the library as a JSON project file. Use - to write to stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Add a song with an empty intro and outro",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNew,
}

func init() {
	rootCmd.AddCommand(listCmd, importCmd, exportCmd, newCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	store, err := openSongs()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpSongsList, err))
	}
	return printSongs(cmd.OutOrStdout(), list)
}

// printSongs writes one line per song: name, section count, and the section
// layout such as "intro loop loop outro".
func printSongs(w io.Writer, list []song.Song) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sg := range list {
		types := make([]string, 0, sg.Len())
		for _, sec := range sg.Sections {
			types = append(types, sec.Type.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			sg.ID, sg.Name, english.Plural(sg.Len(), "section", ""), strings.Join(types, " "))
	}
	return tw.Flush()
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	store, err := openSongs()
	if err != nil {
		return err
	}
	defer store.Close()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	n, err := store.Import(r)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpProjectImport, args[0], err))
	}
	logger.Info().Int("songs", n).Str("file", args[0]).Msg("project imported")
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", english.Plural(n, "song", ""))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	store, err := openSongs()
	if err != nil {
		return err
	}
	defer store.Close()

	if args[0] == "-" {
		return store.Export(cmd.OutOrStdout())
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := store.Export(f); err != nil {
		f.Close()
		return errors.New(errmsg.FormatWith(errmsg.OpProjectExport, args[0], err))
	}
	return f.Close()
}

func runNew(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	store, err := openSongs()
	if err != nil {
		return err
	}
	defer store.Close()

	sg := song.New(strings.Join(args, " "))
	if err := store.Save(sg); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpSongSave, sg.Name, err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), sg.ID)
	return nil
}
