package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
)

// Variables to hold flag values
var (
	snapshotCameraID int64
	snapshotOutput   string
)

// Helper to initialize client from the stored session
func setupCameraClient() *client.SecureSightClient {
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

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage cameras",
	Long:  `List monitored cameras or download their latest thumbnails.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupCameraClient()

		cameras, err := api.GetCameras()
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cameras); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tSTATUS")
		fmt.Fprintln(w, "--\t----\t--------\t------")

		for _, cam := range cameras {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				cam.ID,
				cam.Name,
				cam.Location,
				cam.Status,
			)
		}
		w.Flush()
	},
}

// Snapshot Command
var camerasSnapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Download a camera's latest thumbnail",
	Example: `  securesight cameras snapshot --id 3 --output "entrance.jpg"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupCameraClient()

		cameras, err := api.GetCameras()
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		thumbnail := ""
		for _, cam := range cameras {
			if cam.ID == snapshotCameraID {
				thumbnail = cam.ThumbnailURL
				break
			}
		}
		if thumbnail == "" {
			fmt.Printf("Error: camera %d not found or has no thumbnail.\n", snapshotCameraID)
			os.Exit(1)
		}

		fmt.Printf("Requesting thumbnail for camera %d ...\n", snapshotCameraID)

		imgData, err := api.DownloadThumbnail(thumbnail)
		if err != nil {
			fmt.Printf("Error getting thumbnail: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(snapshotOutput, imgData, 0644); err != nil {
			fmt.Printf("Error writing file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Snapshot saved to %s\n", snapshotOutput)
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)

	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasSnapshotCmd)

	camerasSnapshotCmd.Flags().Int64Var(&snapshotCameraID, "id", 0, "ID of the camera")
	camerasSnapshotCmd.Flags().StringVar(&snapshotOutput, "output", "snapshot.jpg", "Output filename")
	_ = camerasSnapshotCmd.MarkFlagRequired("id")
}
