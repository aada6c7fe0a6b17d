package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/wavewatch/wavewatch/pkg/storage"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the waves remembered from the last check",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st := storage.NewFileStore(statePath())
		s, err := st.Load()
		if err != nil {
			return err
		}
		if s.Empty() {
			fmt.Printf("No state yet at %s. Run 'wavewatch check' first.\n", st.Path())
			return nil
		}

		fmt.Printf("Last check: %s\n", s.LastCheck.Format("2006-01-02 15:04:05"))
		fmt.Print("Summary:   ")
		for _, c := range storage.SummaryCategories {
			fmt.Printf(" %s=%d", c, s.Summary[c])
		}
		fmt.Println()

		keys := make([]string, 0, len(s.Decisions))
		for k := range s.Decisions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("Waves (%d):\n", len(keys))
		for _, k := range keys {
			d := s.Decisions[k]
			fmt.Printf("  %-40s  %-10s  %-12s  %d\n", d.SchoolName, d.Result, d.Date, d.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
