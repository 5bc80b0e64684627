package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// Variables to hold flag values
var (
	expHost       string
	expEmail      string
	expPass       string
	expClientID   string
	expSecret     string
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.SecureSightClient
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	log.Println("Attempting initial login...")
	if _, err := p.api.Login(); err != nil {
		log.Printf("Fatal: Initial login failed: %v", err)
		// Exit so the service manager attempts a restart.
		os.Exit(1)
	}
	log.Println("Initial login successful.")

	registry := prometheus.NewRegistry()
	collector := &SecureSightCollector{Client: p.api}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("SecureSight Exporter listening on %s", addr)

	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

type SecureSightCollector struct {
	Client *client.SecureSightClient
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"securesight_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"securesight_scrape_duration_seconds", "Time taken to scrape the API.", nil, nil,
	)
	cameraUpDesc = prometheus.NewDesc(
		"securesight_camera_up", "Camera online status.", []string{"id", "name", "location"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"securesight_cameras_total", "Total cameras grouped by status.", []string{"status"}, nil,
	)
	incidentCountDesc = prometheus.NewDesc(
		"securesight_incidents_total", "Total incidents grouped by severity and resolution.", []string{"severity", "resolved"}, nil,
	)
	incidentUnresolvedDesc = prometheus.NewDesc(
		"securesight_incidents_unresolved", "Incidents currently awaiting resolution.", nil, nil,
	)
)

func (c *SecureSightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- cameraUpDesc
	ch <- cameraCountDesc
	ch <- incidentCountDesc
	ch <- incidentUnresolvedDesc
}

func (c *SecureSightCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	// 1. Cameras
	if cams, err := c.fetchCamerasWithRetry(); err == nil {
		statusCounts := make(map[string]float64)
		for _, cam := range cams {
			isUp := 0.0
			if cam.Active() {
				isUp = 1.0
			}
			ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, isUp,
				strconv.FormatInt(cam.ID, 10), cam.Name, cam.Location)

			status := strings.ToLower(cam.Status)
			if status == "" {
				status = "unknown"
			}
			statusCounts[status]++
		}
		for status, cnt := range statusCounts {
			ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, cnt, status)
		}
	} else {
		success = 0.0
		log.Printf("Error scraping cameras: %v", err)
	}

	// 2. Incidents
	if incidents, err := c.fetchIncidentsWithRetry(); err == nil {
		type bucket struct {
			severity string
			resolved string
		}
		counts := make(map[bucket]float64)
		unresolved := 0.0
		for _, inc := range incidents {
			severity := strings.ToUpper(inc.Severity)
			if severity == "" {
				severity = "UNKNOWN"
			}
			counts[bucket{severity, strconv.FormatBool(inc.Resolved)}]++
			if !inc.Resolved {
				unresolved++
			}
		}
		for b, cnt := range counts {
			ch <- prometheus.MustNewConstMetric(incidentCountDesc, prometheus.GaugeValue, cnt, b.severity, b.resolved)
		}
		ch <- prometheus.MustNewConstMetric(incidentUnresolvedDesc, prometheus.GaugeValue, unresolved)
	} else {
		success = 0.0
		log.Printf("Error scraping incidents: %v", err)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- RETRY HELPERS ---
func (c *SecureSightCollector) fetchCamerasWithRetry() ([]models.Camera, error) {
	res, err := c.Client.GetCameras()
	if err == nil {
		return res, nil
	}
	if isAuthError(err) {
		if _, e := c.Client.Login(); e == nil {
			return c.Client.GetCameras()
		}
	}
	return nil, err
}
func (c *SecureSightCollector) fetchIncidentsWithRetry() ([]models.Incident, error) {
	res, err := c.Client.GetIncidents(client.FilterAll)
	if err == nil {
		return res, nil
	}
	if isAuthError(err) {
		if _, e := c.Client.Login(); e == nil {
			return c.Client.GetIncidents(client.FilterAll)
		}
	}
	return nil, err
}
func isAuthError(err error) bool {
	return strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "403")
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes SecureSight metrics.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Setup Client Config
		hostClean := strings.TrimRight(expHost, "/")
		cfg := client.ClientConfig{
			BaseURL:      hostClean,
			Email:        expEmail,
			Password:     expPass,
			ClientID:     expClientID,
			ClientSecret: expSecret,
		}

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "securesight-exporter",
			DisplayName: "SecureSight Prometheus Exporter",
			Description: "Exposes SecureSight dashboard metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--host", expHost,
				"--email", expEmail,
				"--password", expPass,
				"--port", expPort,
			},
		}
		if expClientID != "" {
			svcConfig.Arguments = append(svcConfig.Arguments,
				"--client-id", expClientID,
				"--client-secret", expSecret,
			)
		}

		prg := &program{
			api: client.New(cfg),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" {
				// Validate required flags before installing
				if expHost == "" || expEmail == "" || expPass == "" {
					log.Fatal("Error: You must provide credentials (--host, --email, --password) to install the service.")
				}
			}

			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expHost, "host", "", "Dashboard base URL")
	exporterCmd.Flags().StringVar(&expEmail, "email", "", "Operator email")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "Operator password")
	exporterCmd.Flags().StringVar(&expClientID, "client-id", "", "Integration client ID")
	exporterCmd.Flags().StringVar(&expSecret, "client-secret", "", "Integration client secret")
	exporterCmd.Flags().StringVar(&expPort, "port", "9181", "Port to listen on")

	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
