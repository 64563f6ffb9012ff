package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
	"navmesh-planner/navmesh"
)

func main() {
	root := &cobra.Command{
		Use:           "navmesh-planner",
		Short:         "navigation mesh path planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ServeCmd(), BuildCmd(), RouteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and installs the global logger.
func setup(configFile string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	l, err := NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = l
	return nil
}

// loadNavGraph prefers the snapshot and falls back to building from the mesh.
func loadNavGraph(snapshotPath, meshPath string) (*navmesh.NavGraph, error) {
	if snapshotPath != "" {
		nav, err := LoadSnapshot(snapshotPath, navmesh.WithLogger(logger))
		if err == nil {
			logger.Info("loaded navgraph snapshot",
				zap.String("file", snapshotPath),
				zap.Int("nodes", nav.NodeCount()),
				zap.Int("connections", nav.ConnectionCount()),
			)
			return nav, nil
		}
		logger.Info("no usable snapshot", zap.String("file", snapshotPath), zap.Error(err))
	}

	if meshPath == "" {
		return nil, fmt.Errorf("no snapshot and no mesh configured")
	}
	mesh, err := geometry.LoadGeoJSONFile(meshPath)
	if err != nil {
		return nil, err
	}
	return navmesh.NewNavGraph(mesh, navmesh.WithLogger(logger)), nil
}

func ServeCmd() *cobra.Command {
	var configFile, addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP route service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(configFile); err != nil {
				return err
			}
			defer logger.Sync()
			if addr != "" {
				appConfig.Addr = addr
			}

			if nav, err := loadNavGraph(appConfig.SnapshotPath, appConfig.MeshPath); err == nil {
				if err := setNavGraph(nav); err != nil {
					return err
				}
			} else {
				logger.Info("starting without a navgraph, call /buildNavGraph", zap.Error(err))
			}

			server := &http.Server{
				Addr:              appConfig.Addr,
				Handler:           newServeMux(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info("server starting",
				zap.String("addr", appConfig.Addr),
				zap.String("heuristic", appConfig.Heuristic),
			)
			return server.ListenAndServe()
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file (hjson)")
	c.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config")
	return c
}

func BuildCmd() *cobra.Command {
	var configFile, meshPath, out string
	c := &cobra.Command{
		Use:   "build",
		Short: "build a navgraph snapshot from a GeoJSON triangle mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(configFile); err != nil {
				return err
			}
			defer logger.Sync()
			if meshPath == "" {
				meshPath = appConfig.MeshPath
			}
			if out == "" {
				out = appConfig.SnapshotPath
			}

			mesh, err := geometry.LoadGeoJSONFile(meshPath)
			if err != nil {
				return err
			}
			nav := navmesh.NewNavGraph(mesh, navmesh.WithLogger(logger))
			return SaveSnapshot(nav, out, logger)
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file (hjson)")
	c.Flags().StringVar(&meshPath, "mesh", "", "GeoJSON triangle mesh")
	c.Flags().StringVar(&out, "out", "", "snapshot output file")
	return c
}

func RouteCmd() *cobra.Command {
	var configFile, snapshotPath, meshPath, algorithm string
	c := &cobra.Command{
		Use:   "route <startX> <startY> <endX> <endY>",
		Short: "compute one path and print it as a GeoJSON feature",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var coords [4]float64
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				coords[i] = v
			}
			search, err := navmesh.SearchByName(algorithm)
			if err != nil {
				return err
			}

			if err := setup(configFile); err != nil {
				return err
			}
			defer logger.Sync()
			if snapshotPath == "" && meshPath == "" {
				snapshotPath, meshPath = appConfig.SnapshotPath, appConfig.MeshPath
			}

			nav, err := loadNavGraph(snapshotPath, meshPath)
			if err != nil {
				return err
			}
			h, err := graph.HeuristicByName(appConfig.Heuristic)
			if err != nil {
				return err
			}

			pf := navmesh.NewPathfinder(nav,
				navmesh.WithHeuristic(h),
				navmesh.WithSearch(search),
				navmesh.WithLogger(logger),
			)
			path := pf.FindPath(orb.Point{coords[0], coords[1]}, orb.Point{coords[2], coords[3]})
			if len(path) == 0 {
				return fmt.Errorf("no path found")
			}

			feature := geojson.NewFeature(orb.LineString(path))
			feature.Properties["length"] = navmesh.PathLength(path)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(feature)
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file (hjson)")
	c.Flags().StringVar(&snapshotPath, "snapshot", "", "navgraph snapshot")
	c.Flags().StringVar(&meshPath, "mesh", "", "GeoJSON triangle mesh")
	c.Flags().StringVar(&algorithm, "algorithm", "astar", "graph search: astar or bfs")
	return c
}
