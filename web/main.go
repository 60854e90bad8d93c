// Command web serves the progressive raytracer over HTTP, streaming each pass to the browser.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/rayo/web/server"
	"github.com/golang/glog"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", "scenes", "Directory scanned for scene files")
	staticDir := flag.String("static-dir", "static", "Directory of static web assets")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(*port, *scenesDir, *staticDir)

	glog.Infof("Progressive Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(ctx); err != nil {
		glog.Errorf("Error starting server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
