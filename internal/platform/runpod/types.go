package runpod

// Pod is the subset of the RunPod pod object that provisioning reads.
type Pod struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ImageName     string   `json:"imageName"`
	DesiredStatus string   `json:"desiredStatus"`
	GPUCount      int      `json:"gpuCount"`
	MachineID     string   `json:"machineId"`
	Machine       *Machine `json:"machine"`
	Runtime       *Runtime `json:"runtime"`
}

// Machine describes the host a pod was scheduled on.
type Machine struct {
	PodHostID      string `json:"podHostId"`
	GPUDisplayName string `json:"gpuDisplayName"`
}

// Runtime is only present once the container has started.
type Runtime struct {
	UptimeInSeconds int    `json:"uptimeInSeconds"`
	Ports           []Port `json:"ports"`
	GPUs            []GPU  `json:"gpus"`
}

// Port represents a port mapping.
type Port struct {
	IP          string `json:"ip"`
	IsIPPublic  bool   `json:"isIpPublic"`
	PrivatePort int    `json:"privatePort"`
	PublicPort  int    `json:"publicPort"`
	Type        string `json:"type"`
}

// GPU represents an allocated GPU.
type GPU struct {
	ID                string `json:"id"`
	GPUUtilPercent    int    `json:"gpuUtilPercent"`
	MemoryUtilPercent int    `json:"memoryUtilPercent"`
}

// EnvVar is a container environment variable.
type EnvVar struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CreatePodInput mirrors PodFindAndDeployOnDemandInput.
type CreatePodInput struct {
	Name              string   `json:"name"`
	ImageName         string   `json:"imageName"`
	GPUTypeID         string   `json:"gpuTypeId"`
	GPUCount          int      `json:"gpuCount"`
	CloudType         string   `json:"cloudType"`
	ContainerDiskInGB int      `json:"containerDiskInGb"`
	VolumeInGB        int      `json:"volumeInGb"`
	MinMemoryInGB     int      `json:"minMemoryInGb"`
	MinVCPUCount      int      `json:"minVcpuCount"`
	Ports             string   `json:"ports"`
	VolumeMountPath   string   `json:"volumeMountPath"`
	Env               []EnvVar `json:"env"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}
