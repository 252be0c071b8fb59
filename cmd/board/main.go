// Command board is a terminal noticeboard: it polls the badgeboard server
// and prints the character currently on display for each series whenever
// the board changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/avitale/badgeboard/internal/client"
	"github.com/avitale/badgeboard/internal/model"
)

var (
	serverURL string
	interval  time.Duration
	once      bool
)

var rootCmd = &cobra.Command{
	Use:   "board",
	Short: "Watch the badgeboard noticeboard from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(serverURL)
		view := client.NewBoardView(model.SeriesTitles...)

		if once {
			items, err := api.Characters(cmd.Context())
			if err != nil {
				return err
			}
			view.Load(items)
			printBoard(view)
			return nil
		}

		poller := client.NewPoller(api, view, interval)
		poller.OnChange = printBoard

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := poller.Run(ctx); err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "badgeboard server base URL")
	rootCmd.Flags().DurationVar(&interval, "interval", 25*time.Second, "poll interval")
	rootCmd.Flags().BoolVar(&once, "once", false, "print the board once and exit")
}

func printBoard(view *client.BoardView) {
	title := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)

	fmt.Println()
	dim.Printf("-- board @ %s --\n", time.Now().Format("15:04:05"))
	for _, series := range view.Series() {
		title.Printf("%s\n", series)
		ch, ok := view.Current(series)
		if !ok {
			dim.Println("  (no characters)")
			continue
		}
		name.Printf("  %s", ch.Name)
		fmt.Printf("  [%s]  (%d/%d)\n", ch.Role, view.Position(series), view.Count(series))
		if ch.ScriptText != "" {
			fmt.Printf("  %s\n", ch.ScriptText)
		}
		if ch.ExpiryDate != "" {
			dim.Printf("  expires %s\n", ch.ExpiryDate)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
