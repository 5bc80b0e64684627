package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/internal/store"
	"github.com/StrungPattern-coder/SecureSight/internal/timeline"
)

// Variables to hold flag values
var (
	incidentsAll      bool
	incidentsResolved bool
	resolveID         int64
	exportFormat      string
	exportOutput      string
)

// Helper to get authenticated client using stored config
func getIncidentClient() *client.SecureSightClient {
	baseURL := viper.GetString("base_url")
	session := viper.GetString("session_token")

	if baseURL == "" || session == "" {
		fmt.Println("Error: Not logged in. Please run 'securesight login' first.")
		os.Exit(1)
	}

	api := client.New(client.ClientConfig{BaseURL: baseURL})
	api.SetSession(session)
	return api
}

func incidentFilter() client.ResolvedFilter {
	switch {
	case incidentsAll:
		return client.FilterAll
	case incidentsResolved:
		return client.FilterResolved
	default:
		return client.FilterUnresolved
	}
}

// Parent Command
var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Manage incidents",
	Long:  `List incidents, resolve them, or export the day's timeline.`,
}

// List Command
var incidentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents (unresolved by default)",
	Run: func(cmd *cobra.Command, args []string) {
		api := getIncidentClient()

		incidents, err := api.GetIncidents(incidentFilter())
		if err != nil {
			fmt.Printf("Error fetching incidents: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(incidents); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		if len(incidents) == 0 {
			fmt.Println("No incidents.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tCAMERA\tTIME\tRESOLVED")
		fmt.Fprintln(w, "--\t----\t--------\t------\t----\t--------")

		for _, inc := range incidents {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
				inc.ID,
				inc.Type,
				inc.Severity,
				inc.CameraName(),
				inc.Timestamp.Local().Format("2006-01-02 15:04:05"),
				inc.Resolved,
			)
		}
		w.Flush()
	},
}

// Resolve Command
var incidentsResolveCmd = &cobra.Command{
	Use:     "resolve",
	Short:   "Resolve an incident",
	Example: `  securesight incidents resolve --id 42`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getIncidentClient()

		st := store.New(api)
		if err := st.FetchIncidents(client.FilterUnresolved); err != nil {
			fmt.Printf("Error fetching incidents: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Resolving incident %d...\n", resolveID)

		result, err := st.ResolveIncident(resolveID)
		if err != nil {
			fmt.Printf("Resolve %s: %v\n", result, err)
			os.Exit(1)
		}

		fmt.Printf("Incident %d resolved (%s).\n", resolveID, result)
	},
}

// Timeline Command
var incidentsTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show today's incidents on a 24h timeline",
	Run: func(cmd *cobra.Command, args []string) {
		api := getIncidentClient()

		incidents, err := api.GetIncidents(incidentFilter())
		if err != nil {
			fmt.Printf("Error fetching incidents: %v\n", err)
			os.Exit(1)
		}

		dayStart := timeline.DayStart(time.Now())
		dayEnd := dayStart.Add(24 * time.Hour)

		markers := timeline.IncidentPositions(incidents, dayStart)

		// 72-column axis, one cell per 20 minutes
		const width = 72
		axis := []rune(strings.Repeat("-", width))
		for _, m := range markers {
			ts := m.Incident.Timestamp
			if ts.Before(dayStart) || !ts.Before(dayEnd) {
				continue
			}
			pos := int(m.Percent / 100 * float64(width-1))
			axis[pos] = '!'
		}

		fmt.Printf("%s\n", dayStart.Format("Monday, 2 January 2006"))
		fmt.Printf("00:00 %s 24:00\n\n", string(axis))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "POS\tTIME\tID\tTYPE\tSEVERITY\tCAMERA")
		for _, m := range markers {
			ts := m.Incident.Timestamp
			if ts.Before(dayStart) || !ts.Before(dayEnd) {
				continue
			}
			fmt.Fprintf(w, "%5.1f%%\t%s\t%d\t%s\t%s\t%s\n",
				m.Percent,
				ts.Local().Format("15:04:05"),
				m.Incident.ID,
				m.Incident.Type,
				m.Incident.Severity,
				m.Incident.CameraName(),
			)
		}
		w.Flush()
	},
}

// Export Command
var incidentsExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export incidents to CSV or JSON",
	Example: `  securesight incidents export --all --format csv --output incidents.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getIncidentClient()

		incidents, err := api.GetIncidents(incidentFilter())
		if err != nil {
			fmt.Printf("Error fetching incidents: %v\n", err)
			os.Exit(1)
		}

		out, err := os.Create(exportOutput)
		if err != nil {
			fmt.Printf("Error creating %s: %v\n", exportOutput, err)
			os.Exit(1)
		}
		defer out.Close()

		switch exportFormat {
		case "csv":
			w := csv.NewWriter(out)
			_ = w.Write([]string{"Timestamp", "Type", "Severity", "Description", "Camera ID", "Resolved"})
			for _, inc := range incidents {
				_ = w.Write([]string{
					inc.Timestamp.UTC().Format(time.RFC3339),
					inc.Type,
					inc.Severity,
					inc.Description,
					strconv.FormatInt(inc.CameraID, 10),
					strconv.FormatBool(inc.Resolved),
				})
			}
			w.Flush()
			if err := w.Error(); err != nil {
				fmt.Printf("Error writing CSV: %v\n", err)
				os.Exit(1)
			}
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(incidents); err != nil {
				fmt.Printf("Error writing JSON: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Error: unknown format %q (want csv or json)\n", exportFormat)
			os.Exit(1)
		}

		fmt.Printf("Exported %d incidents to %s\n", len(incidents), exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(incidentsCmd)

	incidentsCmd.PersistentFlags().BoolVar(&incidentsAll, "all", false, "Include resolved and unresolved incidents")
	incidentsCmd.PersistentFlags().BoolVar(&incidentsResolved, "resolved", false, "Only resolved incidents")

	incidentsCmd.AddCommand(incidentsListCmd)

	incidentsCmd.AddCommand(incidentsResolveCmd)
	incidentsResolveCmd.Flags().Int64Var(&resolveID, "id", 0, "Incident ID to resolve")
	_ = incidentsResolveCmd.MarkFlagRequired("id")

	incidentsCmd.AddCommand(incidentsTimelineCmd)

	incidentsCmd.AddCommand(incidentsExportCmd)
	incidentsExportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: csv or json")
	incidentsExportCmd.Flags().StringVar(&exportOutput, "output", "incidents.json", "Output filename")
}
