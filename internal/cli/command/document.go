// Package command provides CLI command definitions for docvault.
package command

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/internal/vault/repository"
)

// CreateCommand returns the document create command.
func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Store a new document in the vault",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Document id (generated when omitted)",
			},
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Document title",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "content",
				Aliases: []string{"C"},
				Usage:   "Document content, or @path to read from a file",
			},
			&cli.StringFlag{
				Name:  "content-type",
				Usage: "MIME type of the content",
				Value: domain.DefaultContentType,
			},
			&cli.StringSliceFlag{
				Name:  "meta",
				Usage: "Metadata entry as KEY=VALUE (repeatable)",
			},
		},
		Action: runCreate,
	}
}

func runCreate(c *cli.Context) error {
	content, err := readContent(c.String("content"))
	if err != nil {
		return err
	}

	meta, err := parseMetadata(c.StringSlice("meta"))
	if err != nil {
		return err
	}

	m, tok, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	doc := domain.NewDocument(c.String("id"), c.String("title"), content)
	doc.ContentType = c.String("content-type")
	doc.Metadata = meta

	if err := m.CreateDocument(c.Context, tok, doc); err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(doc)
	}
	fmt.Printf("Created document %s\n", doc.ID)
	return nil
}

// GetCommand returns the document get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a document by id",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "content-only",
				Usage: "Print only the document content",
			},
		},
		Action: runGet,
	}
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	m, tok, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	doc, err := m.GetDocument(c.Context, tok, c.Args().First())
	if err != nil {
		return err
	}

	if c.Bool("content-only") {
		os.Stdout.Write(doc.Content)
		return nil
	}
	if c.String("output") == "json" {
		return printJSON(doc)
	}

	fmt.Printf("ID:           %s\n", doc.ID)
	fmt.Printf("Title:        %s\n", doc.Title)
	fmt.Printf("Status:       %s\n", doc.Status)
	fmt.Printf("Content-Type: %s\n", doc.ContentType)
	fmt.Printf("Size:         %d bytes\n", len(doc.Content))
	fmt.Printf("Checksum:     %s\n", doc.Checksum)
	for k, v := range doc.Metadata {
		fmt.Printf("Meta:         %s=%s\n", k, v)
	}
	return nil
}

// ListCommand returns the document list command.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List documents in the vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status: draft, active, archived",
			},
			&cli.StringFlag{
				Name:  "content-type",
				Usage: "Filter by MIME type",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				Value:   50,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Number of results to skip",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort field: created_at, updated_at, title",
			},
			&cli.BoolFlag{
				Name:  "asc",
				Usage: "Sort ascending instead of descending",
			},
		},
		Action: runList,
	}
}

func runList(c *cli.Context) error {
	if s := c.String("status"); s != "" && !domain.IsValidStatus(s) {
		return fmt.Errorf("invalid status %q", s)
	}

	m, tok, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	docs, err := m.ListDocuments(c.Context, tok, repository.ListOptions{
		Status:      domain.Status(c.String("status")),
		ContentType: c.String("content-type"),
		Limit:       c.Int("limit"),
		Offset:      c.Int("offset"),
		SortBy:      c.String("sort"),
		Ascending:   c.Bool("asc"),
	})
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(docs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSIZE")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", doc.ID, doc.Title, doc.Status, len(doc.Content))
	}
	return w.Flush()
}

// SearchCommand returns the document search command.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search documents by content",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				Value:   20,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Number of results to skip",
			},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one search query")
	}

	m, tok, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	results, err := m.SearchDocuments(c.Context, tok, c.Args().First(), c.Int("limit"), c.Int("offset"))
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRANK\tSNIPPET")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", r.Document.ID, r.Document.Title, r.Rank, r.Snippet)
	}
	return w.Flush()
}

// DeleteCommand returns the document delete command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a document by id",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "hard",
				Usage: "Physically remove the row instead of soft-deleting",
			},
		},
		Action: runDelete,
	}
}

func runDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	m, tok, err := openVault(c)
	if err != nil {
		return err
	}
	defer m.Close()

	id := c.Args().First()
	if err := m.DeleteDocument(c.Context, tok, id, c.Bool("hard")); err != nil {
		return err
	}

	fmt.Printf("Deleted document %s\n", id)
	return nil
}

// readContent resolves the --content flag value. A value starting with
// @ names a file to read; an empty value reads stdin.
func readContent(v string) ([]byte, error) {
	switch {
	case strings.HasPrefix(v, "@"):
		data, err := os.ReadFile(strings.TrimPrefix(v, "@"))
		if err != nil {
			return nil, fmt.Errorf("read content file: %w", err)
		}
		return data, nil
	case v == "":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	default:
		return []byte(v), nil
	}
}

// parseMetadata converts KEY=VALUE pairs into a metadata map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata entry %q, want KEY=VALUE", p)
		}
		meta[k] = v
	}
	return meta, nil
}
