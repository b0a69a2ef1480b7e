package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/san-kum/kinorrt/internal/viz"
)

// Feature kinds, stored in the "kind" property.
const (
	KindWorkspace = "workspace"
	KindObstacle  = "obstacle"
	KindStart     = "start"
	KindGoal      = "goal"
	KindTree      = "tree"
	KindPath      = "path"
)

func feature(kind string, g orb.Geometry) *geojson.Feature {
	f := geojson.NewFeature(g)
	f.Properties["kind"] = kind
	return f
}

// SceneFeatures converts a scene into a feature collection. Obstacles and the
// goal region are points with a "radius" property.
func SceneFeatures(sc viz.Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	ws := feature(KindWorkspace, sc.Bounds().ToPolygon())
	if sc.Title != "" {
		ws.Properties["name"] = sc.Title
	}
	fc.Append(ws)

	for _, o := range sc.Obstacles {
		f := feature(KindObstacle, o.Center)
		f.Properties["radius"] = o.Radius
		fc.Append(f)
	}

	fc.Append(feature(KindStart, sc.Start))

	goal := feature(KindGoal, sc.Goal)
	goal.Properties["radius"] = sc.GoalRadius
	fc.Append(goal)

	if len(sc.Edges) > 0 {
		tree := feature(KindTree, sc.Edges)
		tree.Properties["nodes"] = len(sc.Nodes)
		fc.Append(tree)
	}

	if len(sc.Path) >= 2 {
		fc.Append(feature(KindPath, sc.Path))
	}
	return fc
}

func SceneGeoJSON(sc viz.Scene) ([]byte, error) {
	return SceneFeatures(sc).MarshalJSON()
}
