package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/notegraph/notegraph/pkg/config"
	"github.com/notegraph/notegraph/pkg/export"
	"github.com/notegraph/notegraph/pkg/interact"
	"github.com/notegraph/notegraph/pkg/layout"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/store"
	"github.com/notegraph/notegraph/pkg/ui"
	"github.com/notegraph/notegraph/pkg/watch"
)

// graphFlags are the view settings shared by view and render
type graphFlags struct {
	layout string
	filter string
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.layout, "layout", "", "layout: force, circular or grid (default from config)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "only show this category (default from config)")
}

func (f *graphFlags) sessionOptions(cfg *config.Config) (interact.Options, error) {
	strategy := cfg.Strategy()
	if f.layout != "" {
		s, err := layout.ParseStrategy(f.layout)
		if err != nil {
			return interact.Options{}, err
		}
		strategy = s
	}
	filter := cfg.Graph.Filter
	if f.filter != "" {
		filter = f.filter
	}
	return interact.Options{
		Strategy:        strategy,
		Force:           cfg.ForceOptions(),
		Filter:          filter,
		ShowLabels:      cfg.Graph.ShowLabels,
		ShowConnections: cfg.Graph.ShowConnections,
		ShowLegend:      cfg.Graph.ShowLegend,
	}, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func viewCmd(a *app) *cobra.Command {
	var gf graphFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive graph view",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("view needs an interactive terminal; try render instead")
			}
			opts, err := gf.sessionOptions(a.cfg)
			if err != nil {
				return err
			}
			opts.Logger = a.log

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := watch.New(s.Path(), 0, a.log)
			if err != nil {
				return err
			}
			defer w.Close()

			m, err := ui.New(s, ui.Options{Session: opts, Changes: w.Changes(), Logger: a.log})
			if err != nil {
				return err
			}
			return ui.Run(m)
		},
	}
	gf.register(cmd)
	return cmd
}

func renderCmd(a *app) *cobra.Command {
	var (
		gf       graphFlags
		pngPath  string
		svgPath  string
		selected string
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PNG and/or SVG snapshot of the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := gf.sessionOptions(a.cfg)
			if err != nil {
				return err
			}
			if width == 0 {
				width = a.cfg.Render.Width
			}
			if height == 0 {
				height = a.cfg.Render.Height
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			notes, err := s.GetAll()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return export.SaveSnapshot(ctx, notes, export.SnapshotOptions{
				Strategy:        opts.Strategy,
				Force:           opts.Force,
				Filter:          opts.Filter,
				Selected:        selected,
				ShowLabels:      opts.ShowLabels,
				ShowConnections: opts.ShowConnections,
				ShowLegend:      opts.ShowLegend,
				Width:           width,
				Height:          height,
				PNGPath:         pngPath,
				SVGPath:         svgPath,
				Logger:          a.log,
			})
		},
	}
	gf.register(cmd)
	cmd.Flags().StringVar(&pngPath, "png", "", "PNG output path")
	cmd.Flags().StringVar(&svgPath, "svg", "", "SVG output path")
	cmd.Flags().StringVar(&selected, "select", "", "note ID to highlight, label and center")
	cmd.Flags().IntVar(&width, "width", 0, "image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "image height (default from config)")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "export [file.md]",
		Short: "Export all notes as markdown with a Mermaid graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			notes, err := s.GetAll()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if err := export.SaveMarkdownToFile(notes, title, args[0]); err != nil {
					return err
				}
				a.log.Info("markdown exported", zap.String("file", args[0]), zap.Int("notes", len(notes)))
				return nil
			}
			md, err := export.GenerateMarkdown(export.SortForReport(notes), title)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "Notes", "report title")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			notes, err := s.GetAll()
			if err != nil {
				return err
			}

			width := 80
			if isTerminal(os.Stdout) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
					width = w
				}
			}
			printNotes(cmd.OutOrStdout(), notes, category, width)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

// printNotes writes one aligned line per note: ID, category, links, title
func printNotes(w io.Writer, notes []model.Note, category string, width int) {
	const idWidth, catWidth = 36, 10
	for _, n := range notes {
		if category != "" && n.Category != category {
			continue
		}
		id := runewidth.FillRight(runewidth.Truncate(n.ID, idWidth, "…"), idWidth)
		cat := runewidth.FillRight(runewidth.Truncate(n.Category, catWidth, "…"), catWidth)
		links := fmt.Sprintf("→%-3d", len(n.Connections))
		prefix := id + "  " + cat + "  " + links + "  "
		title := runewidth.Truncate(n.Title, max(width-runewidth.StringWidth(prefix), 10), "…")
		fmt.Fprintln(w, prefix+title)
	}
}

func addCmd(a *app) *cobra.Command {
	var (
		content  string
		category string
		tags     []string
		links    []string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range links {
				if _, err := s.Get(id); err != nil {
					return err
				}
			}

			note, err := s.Add(model.Note{
				Title:       strings.Join(args, " "),
				Content:     content,
				Category:    category,
				Tags:        tags,
				Connections: links,
			})
			if err != nil {
				return err
			}
			a.log.Info("note added", zap.String("id", note.ID))
			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "note body")
	cmd.Flags().StringVar(&category, "category", "personnel", "category")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringSliceVar(&links, "link", nil, "IDs of notes to connect to")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [notes.json|-]",
		Short: "Import a JSON array of notes, replacing notes with the same ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read notes: %w", err)
			}

			var notes []model.Note
			if err := json.Unmarshal(data, &notes); err != nil {
				return fmt.Errorf("decode notes: %w", err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.Import(notes)
			if err != nil {
				return err
			}
			a.log.Info("notes imported", zap.Int("total", len(notes)), zap.Int("added", added))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes (%d new)\n", len(notes), added)
			return nil
		},
	}
}

// connectionSession opens a session for link edits. Grid keeps the initial
// layout cheap; positions are not used.
func (a *app) connectionSession(s *store.Store) (*interact.Session, error) {
	return interact.NewSession(s, interact.Options{Strategy: layout.Grid, Logger: a.log})
}

func linkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link <from> [to]",
		Short: "Connect one note to another; prompts for the target when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			from := args[0]
			if _, err := s.Get(from); err != nil {
				return err
			}
			sess, err := a.connectionSession(s)
			if err != nil {
				return err
			}

			var to string
			if len(args) == 2 {
				to = args[1]
			} else {
				sess.Select(from)
				to, err = pickTarget(sess.LinkCandidates())
				if err != nil {
					return err
				}
			}
			if _, err := s.Get(to); err != nil {
				return err
			}
			if from == to {
				return errors.New("a note cannot link to itself")
			}
			return sess.AddConnection(from, to)
		},
	}
}

// pickTarget asks for a link target interactively
func pickTarget(candidates []model.Note) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errors.New("no target given and stdin is not a terminal")
	}
	if len(candidates) == 0 {
		return "", errors.New("no other notes to link to")
	}

	options := make([]huh.Option[string], 0, len(candidates))
	for _, n := range candidates {
		label := n.Title
		if n.Category != "" {
			label += " (" + n.Category + ")"
		}
		options = append(options, huh.NewOption(runewidth.Truncate(label, 60, "…"), n.ID))
	}

	var to string
	err := huh.NewSelect[string]().
		Title("Link to").
		Options(options...).
		Height(min(len(options)+2, 15)).
		Value(&to).
		Run()
	if err != nil {
		return "", err
	}
	return to, nil
}

func unlinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <from> <to>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.Get(args[0]); err != nil {
				return err
			}
			sess, err := a.connectionSession(s)
			if err != nil {
				return err
			}
			return sess.RemoveConnection(args[0], args[1])
		},
	}
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveDefault(a.configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note; links pointing at it are ignored from then on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(args[0]); err != nil {
				return err
			}
			a.log.Info("note deleted", zap.String("id", args[0]))
			return nil
		},
	}
}
