package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
	"navmesh-planner/navmesh"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) toOrb() orb.Point { return orb.Point{p.X, p.Y} }

func fromOrb(points []orb.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p[0], Y: p[1]}
	}
	return out
}

type RouteRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	Debug bool  `json:"debug,omitempty"` // include node path and portals
}

type RouteResponse struct {
	Path     []Point          `json:"path"`
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Length   float64          `json:"length"`
	NodePath []Point          `json:"nodePath,omitempty"`
	Portals  []navmesh.Portal `json:"portals,omitempty"`
}

// Request body caps for /buildNavGraph and /route.
const (
	maxMeshBody  = 64 << 20
	maxRouteBody = 1 << 20
)

var (
	globalNavGraph   *navmesh.NavGraph
	globalPathfinder *navmesh.Pathfinder
	navMutex         sync.RWMutex

	logger    = zap.NewNop()
	appConfig = DefaultConfig()
)

// setNavGraph swaps the served graph; in-flight queries keep the old one.
func setNavGraph(nav *navmesh.NavGraph) error {
	_, err := installNavGraph(nav, true)
	return err
}

// installNavGraph serves nav unless a graph is already served and replace is
// false. The check and the swap happen under one lock.
func installNavGraph(nav *navmesh.NavGraph, replace bool) (bool, error) {
	h, err := graph.HeuristicByName(appConfig.Heuristic)
	if err != nil {
		return false, err
	}
	pf := navmesh.NewPathfinder(nav, navmesh.WithHeuristic(h), navmesh.WithLogger(logger))

	navMutex.Lock()
	defer navMutex.Unlock()
	if globalNavGraph != nil && !replace {
		return false, nil
	}
	globalNavGraph = nav
	globalPathfinder = pf
	return true, nil
}

func currentNavGraph() (*navmesh.NavGraph, *navmesh.Pathfinder) {
	navMutex.RLock()
	defer navMutex.RUnlock()
	return globalNavGraph, globalPathfinder
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

// POST /route - shortest smoothed path between two positions
func routeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRouteBody)

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Info("invalid route request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log := logger.With(
		zap.Float64("startX", req.Start.X), zap.Float64("startY", req.Start.Y),
		zap.Float64("endX", req.End.X), zap.Float64("endY", req.End.Y),
	)
	log.Info("route request received")

	_, pf := currentNavGraph()
	if pf == nil {
		log.Warn("navgraph not available")
		http.Error(w, "NavGraph not built. Call /buildNavGraph first", http.StatusBadRequest)
		return
	}

	startTime := time.Now()
	res := pf.Query(req.Start.toOrb(), req.End.toOrb())

	response := RouteResponse{
		Path:    fromOrb(res.Path),
		Success: len(res.Path) > 0,
		Length:  navmesh.PathLength(res.Path),
	}
	if req.Debug {
		response.NodePath = fromOrb(res.NodePath)
		response.Portals = res.Portals
	}

	if !response.Success {
		log.Info("no path found")
		response.Message = "No path found: a position is outside the mesh or unreachable"
	} else {
		log.Info("path found",
			zap.Int("waypoints", len(res.Path)),
			zap.Float64("length", response.Length),
			zap.Duration("elapsed", time.Since(startTime)),
		)
	}

	writeJSON(w, http.StatusOK, response)
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	nav, _ := currentNavGraph()

	status := "ready"
	numNodes, numConnections := 0, 0
	if nav == nil {
		status = "waiting for navgraph"
	} else {
		numNodes = nav.NodeCount()
		numConnections = nav.ConnectionCount()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"hasNavGraph":    nav != nil,
		"numNodes":       numNodes,
		"numConnections": numConnections,
	})
}

// POST /buildNavGraph - Build the navigation graph from a GeoJSON triangle mesh
func buildNavGraphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	save := r.URL.Query().Get("save") == "true"

	// Cheap early rejection; installNavGraph repeats the check under the lock.
	if nav, _ := currentNavGraph(); nav != nil && !force {
		writeConflict(w)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMeshBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mesh, err := geometry.ParseGeoJSON(data)
	if err != nil {
		logger.Info("invalid mesh", zap.Error(err))
		status := http.StatusBadRequest
		if errors.Is(err, geometry.ErrNonManifold) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	nav := navmesh.NewNavGraph(mesh, navmesh.WithLogger(logger))
	installed, err := installNavGraph(nav, force)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !installed {
		writeConflict(w)
		return
	}

	saved := false
	if save {
		if err := SaveSnapshot(nav, appConfig.SnapshotPath, logger); err != nil {
			logger.Warn("failed to save navgraph", zap.Error(err))
		} else {
			saved = true
		}
	}

	bound := mesh.Bound()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"numTriangles":   mesh.TriangleCount(),
		"numNodes":       nav.NodeCount(),
		"numConnections": nav.ConnectionCount(),
		"saved":          saved,
		"boundingBox": map[string]float64{
			"minX": bound.Min[0],
			"minY": bound.Min[1],
			"maxX": bound.Max[0],
			"maxY": bound.Max[1],
		},
	})
}

func writeConflict(w http.ResponseWriter) {
	logger.Warn("navgraph already exists")
	writeJSON(w, http.StatusConflict, map[string]interface{}{
		"success": false,
		"error":   "NavGraph already exists",
		"message": "Graph is already built. Pass force=true to rebuild, or restart the server.",
	})
}

// GET /getNavGraphLines - Get graph connections as line segments for visualization
func getNavGraphLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	nav, _ := currentNavGraph()
	if nav == nil {
		http.Error(w, "NavGraph not built. Call /buildNavGraph first", http.StatusBadRequest)
		return
	}

	g := nav.Graph()
	connections := nav.Connections()
	lines := make([][]Point, 0, len(connections))
	for _, c := range connections {
		lines = append(lines, fromOrb([]orb.Point{g.Node(c.From).Position(), g.Node(c.To).Position()}))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": nav.NodeCount(),
		"numEdges": len(lines),
	})
}

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(routeHandler))
	mux.HandleFunc("/buildNavGraph", corsMiddleware(buildNavGraphHandler))
	mux.HandleFunc("/getNavGraphLines", corsMiddleware(getNavGraphLinesHandler))
	mux.HandleFunc("/health", corsMiddleware(healthHandler))
	return mux
}
