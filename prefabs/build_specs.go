package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	Yaw float64 `yaml:"yaw"`
}

type LocomotionComponentSpec struct {
	MoveSpeed       float64 `yaml:"move_speed"`
	TurnSpeed       float64 `yaml:"turn_speed"`
	JumpVelocity    float64 `yaml:"jump_velocity"`
	Gravity         float64 `yaml:"gravity"`
	VisualDamp      float64 `yaml:"visual_damp"`
	MoveEpsilon     float64 `yaml:"move_epsilon"`
	MovingThreshold float64 `yaml:"moving_threshold"`
}

type IdleBobComponentSpec struct {
	Frequency   float64 `yaml:"frequency"`
	Amplitude   float64 `yaml:"amplitude"`
	WhileMoving bool    `yaml:"while_moving"`
}

type NpcComponentSpec struct {
	TalkRadius  float64 `yaml:"talk_radius"`
	ResetRadius float64 `yaml:"reset_radius"`
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
}

type ModelComponentSpec struct {
	Descriptor string `yaml:"descriptor"`
}

type CameraComponentSpec struct {
	FollowOffset  Vec3Spec `yaml:"follow_offset"`
	LookOffset    Vec3Spec `yaml:"look_offset"`
	FollowDamp    float64  `yaml:"follow_damp"`
	PairTargetY   float64  `yaml:"pair_target_y"`
	PairOffset    Vec3Spec `yaml:"pair_offset"`
	PairYawOffset float64  `yaml:"pair_yaw_offset"`
	PairDamp      float64  `yaml:"pair_damp"`
	FOV           float64  `yaml:"fov"`
	Near          float64  `yaml:"near"`
	Far           float64  `yaml:"far"`
}

type CutsceneStepSpec struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
	Spin    bool   `yaml:"spin"`
}

type CutsceneComponentSpec struct {
	// Script is a tengo file under scripts/; Steps is used when it is empty.
	Script       string             `yaml:"script"`
	Steps        []CutsceneStepSpec `yaml:"steps"`
	FaceDamp     float64            `yaml:"face_damp"`
	SpinTurnDamp float64            `yaml:"spin_turn_damp"`
	SpinTurnTime float64            `yaml:"spin_turn_time"`
	SpinSpeed    float64            `yaml:"spin_speed"`
	AdvanceDelay float64            `yaml:"advance_delay"`
}

type FrameClockComponentSpec struct {
	MaxDt float64 `yaml:"max_dt"`
}
