package component

// PrefabSource records which prefab an entity was built from so edits to
// that file can be re-applied.
type PrefabSource struct {
	Path string
}

var PrefabSourceComponent = NewComponent[PrefabSource]()
