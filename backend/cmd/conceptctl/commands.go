package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"recall/backend/internal/classify"
	"recall/backend/internal/concept"
	"recall/backend/internal/graph"
	"recall/backend/internal/similarity"
)

type options struct {
	file         string
	taxonomyFile string
	maxEdges     int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "conceptctl",
		Short:         "Inspect a concept export offline",
		Long:          longRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "JSON array of concepts (- for stdin)")
	root.PersistentFlags().StringVar(&opts.taxonomyFile, "taxonomy", "", "YAML taxonomy replacing the built-in one")

	root.AddCommand(newGraphCmd(opts), newClassifyCmd(opts), newSimilarCmd(opts), newSeedCmd(opts))
	return root
}

func newGraphCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the knowledge graph for the export",
		RunE: func(cmd *cobra.Command, args []string) error {
			concepts, err := readConcepts(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			g := graph.NewBuilder(nil, nil, opts.maxEdges).Build(concepts)
			return writeJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().IntVar(&opts.maxEdges, "max-edges", graph.DefaultMaxEdgesPerNode, "edges kept per node")
	return cmd
}

func newClassifyCmd(opts *options) *cobra.Command {
	var in concept.Concept
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one title, or every concept in the export",
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := loadClassifier(opts.taxonomyFile)
			if err != nil {
				return err
			}

			if in.Title != "" {
				return writeJSON(cmd.OutOrStdout(), classifier.Classify(&in))
			}
			if opts.file == "" {
				return fmt.Errorf("either --title or --file is required")
			}

			concepts, err := readConcepts(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			type row struct {
				ID     string          `json:"id"`
				Title  string          `json:"title"`
				Result classify.Result `json:"result"`
			}
			rows := make([]row, 0, len(concepts))
			for _, c := range concepts {
				rows = append(rows, row{ID: c.ID, Title: c.Title, Result: classifier.Classify(c)})
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "title to classify")
	cmd.Flags().StringVar(&in.Summary, "summary", "", "summary used for keyword scoring")
	cmd.Flags().StringVar(&in.Category, "category", "", "category to normalize")
	return cmd
}

func newSimilarCmd(opts *options) *cobra.Command {
	var (
		title     string
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List concepts in the export whose titles resemble --title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			concepts, err := readConcepts(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			matches := similarity.NewDetector(similarity.DefaultThreshold).FindSimilar(title, concepts, threshold)
			if matches == nil {
				matches = []similarity.Match{}
			}
			return writeJSON(cmd.OutOrStdout(), matches)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title to compare")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum score; 0 uses the default")
	return cmd
}

func loadClassifier(path string) (*classify.Classifier, error) {
	if path == "" {
		return classify.NewClassifier(nil), nil
	}
	t, err := classify.LoadTaxonomy(path)
	if err != nil {
		return nil, err
	}
	return classify.NewClassifier(t), nil
}

func readConcepts(stdin io.Reader, path string) ([]*concept.Concept, error) {
	var r io.Reader
	switch path {
	case "":
		return nil, fmt.Errorf("--file is required")
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open concepts: %w", err)
		}
		defer f.Close()
		r = f
	}

	var concepts []*concept.Concept
	if err := json.NewDecoder(r).Decode(&concepts); err != nil {
		return nil, fmt.Errorf("failed to decode concepts: %w", err)
	}
	return concepts, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var longRoot = `
Run the classifier, similarity detector and graph builder over a JSON export.

Examples:
  # Build the graph for an export.
  conceptctl graph --file concepts.json

  # Classify a single title against a custom taxonomy.
  conceptctl classify --title "Two Sum" --taxonomy taxonomy.yaml

  # Find likely duplicates.
  conceptctl similar --file concepts.json --title "hash tables"

  # Load an export into the store named by STORE_BACKEND.
  conceptctl seed --file concepts.json --user u1
`
