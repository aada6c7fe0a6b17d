package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wavewatch/wavewatch/internal/utils"
	"github.com/wavewatch/wavewatch/pkg/decisions"
	"github.com/wavewatch/wavewatch/pkg/grid"
)

// decodeCmd is a debugging aid for the hidden grid payload.
var decodeCmd = &cobra.Command{
	Use:   "decode [FILE|-]",
	Short: "Decode a raw grid payload and print its rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, _ := cmd.Flags().GetBool("sample")
		watched, _ := cmd.Flags().GetBool("watched")

		if sample {
			raw, err := grid.Encode(
				[]string{"count", "school_name", "school_slug", "result", "date"},
				[][]any{{3, "Harvard University", "harvard", "Accepted", "2024-01-10"}},
			)
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		}

		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		raw, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		records, err := grid.Decode(string(raw))
		if err != nil {
			return err
		}
		if watched {
			records = decisions.Filter(records, utils.NormalizeSchools(viper.GetStringSlice("schools")), true)
		}
		for _, r := range records {
			fmt.Printf("%4d  %-40s  %-10s  %s\n", r.Count, r.SchoolName, r.Result, r.Date)
		}
		utils.Log.Infof("%d row(s)", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("sample", false, "Print an example compressed payload instead of decoding")
	decodeCmd.Flags().Bool("watched", false, "Only print rows for the configured schools")
}
