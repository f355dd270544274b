package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/platform/runpod"
	"github.com/imamik/imagepod/internal/util/keygen"
	"github.com/imamik/imagepod/internal/util/naming"
	"github.com/imamik/imagepod/internal/util/ptr"
)

// Defaults applied when an option is absent from the deployment file.
const (
	DefaultAcceleratorCount = 1
	DefaultDiskGB           = 50
	DefaultVolumeGB         = 100
	DefaultMinMemoryGB      = 32
	DefaultMinVCPU          = 8
	DefaultMountPath        = "/workspace"
	DefaultCloudType        = "SECURE"
)

// DefaultPorts exposes the service over the HTTP proxy and SSH over TCP.
var DefaultPorts = []string{"8080/http", "22/tcp"}

var validCloudTypes = []string{"SECURE", "COMMUNITY", "ALL"}

// Port protocols understood by the provider.
const (
	ProtocolHTTP = "http"
	ProtocolTCP  = "tcp"
)

// Port is an exposed container port.
type Port struct {
	Number   int
	Protocol string
}

func (p Port) String() string {
	return fmt.Sprintf("%d/%s", p.Number, p.Protocol)
}

// ProvisionRequest is a validated, read-only description of one pod.
// It is built once per deployment attempt by BuildRequest.
type ProvisionRequest struct {
	name             string
	image            string
	acceleratorType  string
	acceleratorCount int
	cloudType        string
	diskGB           int
	volumeGB         int
	minMemoryGB      int
	minVCPU          int
	ports            []Port
	mountPath        string
	env              map[string]string
}

func (r ProvisionRequest) Name() string            { return r.name }
func (r ProvisionRequest) Image() string           { return r.image }
func (r ProvisionRequest) AcceleratorType() string { return r.acceleratorType }
func (r ProvisionRequest) AcceleratorCount() int   { return r.acceleratorCount }
func (r ProvisionRequest) CloudType() string       { return r.cloudType }
func (r ProvisionRequest) DiskGB() int             { return r.diskGB }
func (r ProvisionRequest) VolumeGB() int           { return r.volumeGB }
func (r ProvisionRequest) MinMemoryGB() int        { return r.minMemoryGB }
func (r ProvisionRequest) MinVCPU() int            { return r.minVCPU }
func (r ProvisionRequest) MountPath() string       { return r.mountPath }

// Ports returns a copy of the exposed ports.
func (r ProvisionRequest) Ports() []Port { return slices.Clone(r.ports) }

// Env returns a copy of the container environment.
func (r ProvisionRequest) Env() map[string]string { return maps.Clone(r.env) }

// HTTPPort returns the first port exposed over HTTP, or 0 if there is none.
func (r ProvisionRequest) HTTPPort() int {
	for _, p := range r.ports {
		if p.Protocol == ProtocolHTTP {
			return p.Number
		}
	}
	return 0
}

// CreateInput converts the request into the provider's deploy input.
// Environment variables are sorted by key so the payload is stable.
func (r ProvisionRequest) CreateInput() runpod.CreatePodInput {
	keys := lo.Keys(r.env)
	slices.Sort(keys)

	return runpod.CreatePodInput{
		Name:              r.name,
		ImageName:         r.image,
		GPUTypeID:         r.acceleratorType,
		GPUCount:          r.acceleratorCount,
		CloudType:         r.cloudType,
		ContainerDiskInGB: r.diskGB,
		VolumeInGB:        r.volumeGB,
		MinMemoryInGB:     r.minMemoryGB,
		MinVCPUCount:      r.minVCPU,
		Ports:             strings.Join(lo.Map(r.ports, func(p Port, _ int) string { return p.String() }), ","),
		VolumeMountPath:   r.mountPath,
		Env: lo.Map(keys, func(k string, _ int) runpod.EnvVar {
			return runpod.EnvVar{Key: k, Value: r.env[k]}
		}),
	}
}

// BuildRequest validates a deployment configuration and applies defaults.
// It performs no I/O; credentials and key files must already be resolved
// into cfg (see config.ApplyEnvironment and config.ResolvePublicKey).
func BuildRequest(cfg *config.Deployment) (ProvisionRequest, error) {
	if cfg == nil {
		return ProvisionRequest{}, &ConfigError{Field: "deployment", Reason: "is required"}
	}

	req := ProvisionRequest{
		image:           strings.TrimSpace(cfg.Image),
		acceleratorType: strings.TrimSpace(cfg.AcceleratorType),
		mountPath:       lo.Ternary(cfg.MountPath != "", cfg.MountPath, DefaultMountPath),
		cloudType:       strings.ToUpper(lo.Ternary(cfg.CloudType != "", cfg.CloudType, DefaultCloudType)),
	}

	switch {
	case cfg.Name != "":
		req.name = cfg.Name
	case naming.Sanitize(cfg.BaseName) != "":
		req.name = naming.Pod(cfg.BaseName)
	default:
		return ProvisionRequest{}, &ConfigError{Field: "name", Reason: "name or base_name is required"}
	}

	if req.image == "" {
		return ProvisionRequest{}, &ConfigError{Field: "image", Reason: "is required"}
	}
	if req.acceleratorType == "" {
		return ProvisionRequest{}, &ConfigError{Field: "accelerator_type", Reason: "is required"}
	}
	if !slices.Contains(validCloudTypes, req.cloudType) {
		return ProvisionRequest{}, &ConfigError{Field: "cloud_type", Reason: fmt.Sprintf("must be one of %v", validCloudTypes)}
	}
	if !strings.HasPrefix(req.mountPath, "/") {
		return ProvisionRequest{}, &ConfigError{Field: "mount_path", Reason: "must be an absolute path"}
	}

	quantities := []struct {
		field string
		value *int
		def   int
		dst   *int
	}{
		{"accelerator_count", cfg.AcceleratorCount, DefaultAcceleratorCount, &req.acceleratorCount},
		{"disk_gb", cfg.DiskGB, DefaultDiskGB, &req.diskGB},
		{"volume_gb", cfg.VolumeGB, DefaultVolumeGB, &req.volumeGB},
		{"min_memory_gb", cfg.MinMemoryGB, DefaultMinMemoryGB, &req.minMemoryGB},
		{"min_vcpu", cfg.MinVCPU, DefaultMinVCPU, &req.minVCPU},
	}
	for _, q := range quantities {
		v := ptr.Deref(q.value, q.def)
		if v <= 0 {
			return ProvisionRequest{}, &ConfigError{Field: q.field, Reason: fmt.Sprintf("must be positive, got %d", v)}
		}
		*q.dst = v
	}

	ports, err := parsePorts(lo.Ternary(len(cfg.Ports) > 0, cfg.Ports, DefaultPorts))
	if err != nil {
		return ProvisionRequest{}, err
	}
	req.ports = ports

	env, err := buildEnv(cfg, req.HTTPPort())
	if err != nil {
		return ProvisionRequest{}, err
	}
	req.env = env

	return req, nil
}

// parsePorts parses "{n}/{proto}" entries. A bare number is an HTTP port.
func parsePorts(entries []string) ([]Port, error) {
	ports := make([]Port, 0, len(entries))
	for _, entry := range entries {
		numStr, proto, found := strings.Cut(strings.TrimSpace(entry), "/")
		if !found {
			proto = ProtocolHTTP
		}
		proto = strings.ToLower(proto)

		n, err := strconv.Atoi(numStr)
		if err != nil || n < 1 || n > 65535 {
			return nil, &ConfigError{Field: "ports", Reason: fmt.Sprintf("invalid port %q", entry)}
		}
		if proto != ProtocolHTTP && proto != ProtocolTCP {
			return nil, &ConfigError{Field: "ports", Reason: fmt.Sprintf("unsupported protocol in %q", entry)}
		}
		ports = append(ports, Port{Number: n, Protocol: proto})
	}

	if len(lo.UniqBy(ports, func(p Port) int { return p.Number })) != len(ports) {
		return nil, &ConfigError{Field: "ports", Reason: "duplicate port number"}
	}
	return ports, nil
}

// buildEnv assembles the container environment: service settings first,
// then the explicit env map, which overrides them.
func buildEnv(cfg *config.Deployment, httpPort int) (map[string]string, error) {
	env := make(map[string]string)

	svc := cfg.Service
	setIf := func(key, value string) {
		if value != "" {
			env[key] = value
		}
	}
	setIf("MODEL_NAME", svc.Model)
	setIf("S3_BUCKET", svc.S3Bucket)
	setIf("AWS_REGION", svc.AWSRegion)
	setIf("AWS_ENDPOINT_URL_S3", svc.S3Endpoint)
	setIf("AWS_ACCESS_KEY_ID", svc.AccessKeyID)
	setIf("AWS_SECRET_ACCESS_KEY", svc.SecretAccessKey)

	if svc.InferenceSteps != nil {
		if *svc.InferenceSteps <= 0 {
			return nil, &ConfigError{Field: "service.num_inference_steps", Reason: "must be positive"}
		}
		env["NUM_INFERENCE_STEPS"] = strconv.Itoa(*svc.InferenceSteps)
	}
	if svc.CFGScale != nil {
		if *svc.CFGScale <= 0 {
			return nil, &ConfigError{Field: "service.true_cfg_scale", Reason: "must be positive"}
		}
		env["TRUE_CFG_SCALE"] = strconv.FormatFloat(*svc.CFGScale, 'f', -1, 64)
	}
	if svc.Seed != nil {
		env["DEFAULT_SEED"] = strconv.Itoa(*svc.Seed)
	}
	if httpPort > 0 {
		env["PORT"] = strconv.Itoa(httpPort)
	}

	if cfg.SSH.PublicKey != "" {
		key, err := keygen.NormalizeAuthorizedKey(cfg.SSH.PublicKey)
		if err != nil {
			return nil, &ConfigError{Field: "ssh.public_key", Reason: err.Error()}
		}
		env["PUBLIC_KEY"] = key
	}

	for k, v := range cfg.Env {
		if strings.TrimSpace(k) == "" {
			return nil, &ConfigError{Field: "env", Reason: "empty variable name"}
		}
		env[k] = v
	}

	return env, nil
}
