package config

// Deployment is the parsed deployment file.
//
// Numeric options are pointers so that an absent option (nil, default
// applies) can be told apart from an explicit zero (rejected).
type Deployment struct {
	// Name is the exact pod name. When empty, a name is derived from BaseName.
	Name     string `yaml:"name"`
	BaseName string `yaml:"base_name"`

	// Image is the container image that runs the image-generation service.
	Image string `yaml:"image"`

	AcceleratorType  string `yaml:"accelerator_type"`
	AcceleratorCount *int   `yaml:"accelerator_count"`
	CloudType        string `yaml:"cloud_type"`

	DiskGB      *int `yaml:"disk_gb"`
	VolumeGB    *int `yaml:"volume_gb"`
	MinMemoryGB *int `yaml:"min_memory_gb"`
	MinVCPU     *int `yaml:"min_vcpu"`

	// Ports are exposed as "{port}/{http|tcp}".
	Ports     []string          `yaml:"ports"`
	MountPath string            `yaml:"mount_path"`
	Env       map[string]string `yaml:"env"`

	Service ServiceConfig `yaml:"service"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// ServiceConfig holds settings consumed by the image-generation service
// inside the pod. Every set field is forwarded as a container env var.
type ServiceConfig struct {
	Model          string   `yaml:"model"`
	S3Bucket       string   `yaml:"s3_bucket"`
	AWSRegion      string   `yaml:"aws_region"`
	S3Endpoint     string   `yaml:"s3_endpoint"` // S3-compatible store; empty means AWS
	InferenceSteps *int     `yaml:"num_inference_steps"`
	CFGScale       *float64 `yaml:"true_cfg_scale"`
	Seed           *int     `yaml:"seed"`

	// Credentials never come from the file; see ApplyEnvironment.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// SSHConfig configures the key authorized for SSH access to the pod.
type SSHConfig struct {
	PublicKey     string `yaml:"public_key"`
	PublicKeyFile string `yaml:"public_key_file"`
}
