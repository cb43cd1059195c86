package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type NpcTag struct{}

var NpcTagComponent = NewComponent[NpcTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
