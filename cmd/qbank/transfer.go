package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Write a dataset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := valueobjects.ParseDataset(args[0])
			if err != nil {
				return err
			}
			data, err := codec.Encode(c.repo.Snapshot(d.Name()))
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = c.out.Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset> <file>",
		Short: "Replace a dataset with the contents of a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := valueobjects.ParseDataset(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			snap, err := codec.Decode(data)
			if err != nil {
				return err
			}
			for _, key := range snap.Categories() {
				if !valueobjects.Has(d, key) || valueobjects.IsGallery(d, key) {
					return pkgerrors.NewValidationError(fmt.Sprintf("category %q does not belong to %s", key, d.Name()))
				}
			}

			prompt := fmt.Sprintf("确定要用 %d 道题目覆盖 %s 吗？", snap.Count(), d.Name())
			ok, err := c.confirm.Confirm(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.NewConfirmationRequiredError(prompt)
			}

			if err := c.repo.Replace(cmd.Context(), d.Name(), snap); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "import: %s now has %d records\n", d.Name(), snap.Count())
			return nil
		},
	}
}
