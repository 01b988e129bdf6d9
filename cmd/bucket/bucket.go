// Package bucket manages the lifecycle of budget buckets
package bucket

import (
	"fmt"

	"fjacquet/bucket-ledger/cmd/common"
	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/spf13/cobra"
)

var (
	group     string
	name      string
	bucketID  int64
	notes     string
	createCfg common.ConfigFlags
	configCfg common.ConfigFlags
)

// Cmd represents the bucket command
var Cmd = &cobra.Command{
	Use:   "bucket",
	Short: "Create, configure and close buckets",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a bucket valid from the selected month",
	RunE:  runCreate,
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Change a bucket's configuration from the selected month on",
	Long: `Store a new configuration version for a bucket. Configuring the month of the
latest version rewrites it; configuring a later month adds a version.`,
	RunE: runConfigure,
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close an empty bucket",
	Long: `Close a bucket whose balance is zero in the selected month. A bucket with history
is hidden from the following month on, a bucket without any is deleted.`,
	RunE: runClose,
}

func init() {
	createCmd.Flags().StringVarP(&group, "group", "g", "", "Group name, created when missing")
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Bucket name")
	_ = createCmd.MarkFlagRequired("group")
	_ = createCmd.MarkFlagRequired("name")
	createCfg.Register(createCmd)

	configureCmd.Flags().Int64Var(&bucketID, "id", 0, "Bucket id")
	configureCmd.Flags().StringVar(&notes, "notes", "", "Notes stored with the version")
	_ = configureCmd.MarkFlagRequired("id")
	configCfg.Register(configureCmd)

	closeCmd.Flags().Int64Var(&bucketID, "id", 0, "Bucket id")
	_ = closeCmd.MarkFlagRequired("id")

	Cmd.AddCommand(createCmd, configureCmd, closeCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}
	cfg, err := createCfg.Config()
	if err != nil {
		return err
	}

	b, err := c.GetBucketService().CreateBucketInGroup(cmd.Context(), group, models.Bucket{Name: name}, cfg, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created bucket %d %q (%s) valid from %s\n",
		b.ID, b.Name, cfg.Type(), dateutils.FormatMonth(b.ValidFrom))
	return nil
}

func runConfigure(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}
	cfg, err := configCfg.Config()
	if err != nil {
		return err
	}

	v, err := c.GetBucketService().Configure(cmd.Context(), bucketID, cfg, month, notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bucket %d is now %s from %s (version %d)\n",
		bucketID, cfg.Type(), dateutils.FormatMonth(v.ValidFrom), v.Version)
	return nil
}

func runClose(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}

	action, err := c.GetBucketService().Close(cmd.Context(), bucketID, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bucket %d %s\n", bucketID, action)
	return nil
}
