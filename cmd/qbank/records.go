package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

func (c *cli) datasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets and their categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tCATEGORY\tLABEL\tRECORDS")
			for _, d := range valueobjects.Datasets() {
				snap := c.repo.Snapshot(d.Name())
				for _, cat := range d.Categories() {
					count := "-"
					if !valueobjects.IsGallery(d, cat.Key) {
						count = fmt.Sprint(snap.Len(cat.Key))
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name(), cat.Key, cat.Label, count)
				}
			}
			return w.Flush()
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "list <dataset> <category>",
		Short: "Print the records of one category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := c.target(args[0], args[1])
			if err != nil {
				return err
			}
			for i, rec := range c.repo.List(target) {
				c.printRecord(i, rec, full)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print answers and details too")
	return cmd
}

func (c *cli) printRecord(index int, rec entities.Record, full bool) {
	fmt.Fprintf(c.out, "%d. %s\n", index, rec.Question)
	if !full {
		return
	}
	if rec.Answer != "" {
		fmt.Fprintf(c.out, "   %s\n", indent(rec.Answer))
	}
	if rec.HasDetail() {
		fmt.Fprintf(c.out, "   详细: %s\n", indent(rec.Detail))
	}
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n   ")
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <dataset> <category>",
		Short: "Prepend a new default record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.apply(cmd, args[0], args[1], aggregates.AddRecord{})
		},
	}
}

func (c *cli) insertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <dataset> <category> <index>",
		Short: "Insert a new default record after index",
		Long:  "An index of -1 inserts at the front of the list.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[2], -1)
			if err != nil {
				return err
			}
			return c.apply(cmd, args[0], args[1], aggregates.InsertRecordAfter{Index: index})
		},
	}
	// Flags end at the first argument so that -1 is read as an index.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var question, answer, detail string
	cmd := &cobra.Command{
		Use:   "update <dataset> <category> <index>",
		Short: "Rewrite fields of one record",
		Long:  "Only the fields passed as flags change; the others keep their value.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := c.target(args[0], args[1])
			if err != nil {
				return err
			}
			index, err := parseIndex(args[2], 0)
			if err != nil {
				return err
			}
			list := c.repo.List(target)
			if index >= len(list) {
				return fmt.Errorf("index %d out of range [0, %d)", index, len(list))
			}

			rec := list[index]
			flags := cmd.Flags()
			for field, value := range map[string]string{
				entities.FieldQuestion: question,
				entities.FieldAnswer:   answer,
				entities.FieldDetail:   detail,
			} {
				if flags.Changed(field) {
					rec, _ = rec.WithField(field, value)
				}
			}
			return c.apply(cmd, args[0], args[1], aggregates.UpdateRecord{Index: index, Record: rec})
		},
	}
	cmd.Flags().StringVar(&question, entities.FieldQuestion, "", "new question text")
	cmd.Flags().StringVar(&answer, entities.FieldAnswer, "", "new answer text")
	cmd.Flags().StringVar(&detail, entities.FieldDetail, "", "new detail text")
	cmd.MarkFlagsOneRequired(entities.FieldQuestion, entities.FieldAnswer, entities.FieldDetail)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dataset> <category> <index>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[2], 0)
			if err != nil {
				return err
			}
			return c.apply(cmd, args[0], args[1], aggregates.DeleteRecord{Index: index})
		},
	}
}

func (c *cli) batchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch-delete <dataset> <category> <index>...",
		Short: "Delete several records at once",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices := make([]int, 0, len(args)-2)
			for _, a := range args[2:] {
				i, err := parseIndex(a, 0)
				if err != nil {
					return err
				}
				indices = append(indices, i)
			}
			return c.apply(cmd, args[0], args[1], aggregates.BatchDeleteRecords{Indices: indices})
		},
	}
}

// apply runs one mutation and reports the new length of the list.
func (c *cli) apply(cmd *cobra.Command, dataset, category string, m aggregates.Mutation) error {
	target, err := c.target(dataset, category)
	if err != nil {
		return err
	}
	list, err := c.repo.Apply(cmd.Context(), target, m, c.confirm)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %s/%s now has %d records\n", m.Name(), dataset, category, len(list))
	return nil
}
