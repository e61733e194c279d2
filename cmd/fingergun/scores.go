package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingergun/internal/store"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "List past rounds",
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().IntP("limit", "n", 10, "number of rounds to show (0 for all)")
	scoresCmd.Flags().Bool("best", false, "order by score instead of date")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	best, _ := cmd.Flags().GetBool("best")

	var sessions []*store.Session
	if best {
		sessions, err = st.Sessions().Best(limit)
	} else {
		sessions, err = st.Sessions().List(limit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No rounds played yet.")
		return nil
	}
	return printSessions(tabwriter.NewWriter(out, 0, 4, 2, ' ', 0), sessions)
}

func printSessions(w *tabwriter.Writer, sessions []*store.Session) error {
	fmt.Fprintln(w, "ID\tSTARTED\tSCORE\tSHOTS\tACCURACY")
	for _, s := range sessions {
		id := s.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f%%\n",
			id, s.StartedAt.Local().Format("2006-01-02 15:04"), s.Score, s.Shots, 100*s.Accuracy())
	}
	return w.Flush()
}
