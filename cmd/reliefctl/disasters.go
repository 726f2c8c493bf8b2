package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reliefgrid/reliefgrid/internal/model"
)

func init() {
	disastersCmd := &cobra.Command{Use: "disasters", Short: "Disaster record operations"}

	// list
	var tag, owner string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List disasters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			out, err := s.Disasters().List(cmd.Context(), model.DisasterFilter{Tag: tag, OwnerID: owner})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	listCmd.Flags().StringVarP(&tag, "tag", "t", "", "Filter by tag membership")
	listCmd.Flags().StringVarP(&owner, "owner", "o", "", "Filter by owner")
	disastersCmd.AddCommand(listCmd)

	// create
	var title, location, description, createOwner string
	var tags []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a disaster record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" || createOwner == "" {
				return fmt.Errorf("--title and --owner required")
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			d, err := s.Disasters().Create(cmd.Context(), model.CreateDisasterRequest{
				Title:        title,
				LocationName: location,
				Description:  description,
				Tags:         tags,
				OwnerID:      createOwner,
			})
			if err != nil {
				return err
			}
			return printJSON(d)
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Title (required)")
	createCmd.Flags().StringVar(&location, "location", "", "Human-readable location name")
	createCmd.Flags().StringVar(&description, "description", "", "Free-text description")
	createCmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (comma separated)")
	createCmd.Flags().StringVar(&createOwner, "owner", "", "Owner username (required)")
	disastersCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get a disaster with its audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			d, err := s.Disasters().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("disaster %d does not exist", id)
			}
			return printJSON(d)
		},
	}
	disastersCmd.AddCommand(getCmd)

	rootCmd.AddCommand(disastersCmd)
}
