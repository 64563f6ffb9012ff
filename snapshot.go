package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
	"navmesh-planner/navmesh"
)

const snapshotVersion = 1

// snapshot is the on-disk form of a NavGraph. Triangles are stored in mesh
// order so line indices come out identical on reload.
type snapshot struct {
	Version     int                `msgpack:"version"`
	Triangles   [][3]orb.Point     `msgpack:"triangles"`
	Nodes       []snapshotNode     `msgpack:"nodes"`
	Connections []graph.Connection `msgpack:"connections"`
}

type snapshotNode struct {
	Index     int       `msgpack:"index"`
	LineIndex int       `msgpack:"line"`
	Position  orb.Point `msgpack:"position"`
}

// SaveSnapshot serializes the navigation graph and its mesh to a msgpack file
func SaveSnapshot(nav *navmesh.NavGraph, filename string, logger *zap.Logger) error {
	mesh := nav.Mesh()
	snap := snapshot{
		Version:     snapshotVersion,
		Triangles:   mesh.TrianglePoints(),
		Connections: nav.Connections(),
	}
	for _, n := range nav.Nodes() {
		snap.Nodes = append(snap.Nodes, snapshotNode{
			Index:     n.Index(),
			LineIndex: n.LineIndex(),
			Position:  n.Position(),
		})
	}

	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to marshal navgraph: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("navgraph saved",
		zap.String("file", filename),
		zap.Int("bytes", len(data)),
		zap.Int("nodes", len(snap.Nodes)),
	)
	return nil
}

// LoadSnapshot deserializes a navigation graph written by SaveSnapshot
func LoadSnapshot(filename string, opts ...navmesh.Option) (*navmesh.NavGraph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal navgraph: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	mesh, err := geometry.NewPolygon(snap.Triangles)
	if err != nil {
		return nil, fmt.Errorf("snapshot mesh: %w", err)
	}

	nodes := make([]navmesh.Node, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes = append(nodes, navmesh.NewNode(n.Index, n.LineIndex, n.Position))
	}

	nav, err := navmesh.RestoreNavGraph(mesh, nodes, snap.Connections, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot graph: %w", err)
	}
	return nav, nil
}
