package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/internal/realtime"
	"github.com/StrungPattern-coder/SecureSight/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow cameras and incidents live",
	Long: `Keeps a local view of the dashboard in sync over the realtime channel
(with a 30s polling fallback) and redraws whenever anything changes.
Press Ctrl-C to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		baseURL := viper.GetString("base_url")
		session := viper.GetString("session_token")

		if baseURL == "" || session == "" {
			fmt.Println("Error: Not logged in. Please run 'securesight login' first.")
			os.Exit(1)
		}

		api := client.New(client.ClientConfig{BaseURL: baseURL})
		api.SetSession(session)

		st := store.New(api)

		if err := st.FetchCameras(); err != nil {
			log.Printf("watch: initial camera fetch failed: %v", err)
		}
		if err := st.FetchIncidents(client.FilterUnresolved); err != nil {
			log.Printf("watch: initial incident fetch failed: %v", err)
		}

		syncer := realtime.New(st, api)
		syncer.Start()
		defer syncer.Cleanup()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		renderWatch(st)
		for {
			select {
			case <-st.Changes():
				renderWatch(st)
			case <-interrupt:
				fmt.Println("\nStopping.")
				return
			}
		}
	},
}

func renderWatch(st *store.Store) {
	// Clear screen and redraw from the current snapshot
	fmt.Print("\033[2J\033[H")

	cameras := st.Cameras()
	incidents := st.Incidents()

	active := 0
	for _, cam := range cameras {
		if cam.Active() {
			active++
		}
	}

	unresolved := 0
	for _, inc := range incidents {
		if !inc.Resolved {
			unresolved++
		}
	}

	fmt.Printf("SecureSight  %s\n", time.Now().Format("15:04:05"))
	fmt.Printf("Cameras: %d (%d active)   Incidents: %d (%d unresolved)\n\n",
		len(cameras), active, len(incidents), unresolved)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tCAMERA\tTIME\tRESOLVED")
	for _, inc := range incidents {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
			inc.ID,
			inc.Type,
			inc.Severity,
			inc.CameraName(),
			inc.Timestamp.Local().Format("15:04:05"),
			inc.Resolved,
		)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
