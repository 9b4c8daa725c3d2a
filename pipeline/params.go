package pipeline

import (
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/scaffold"
)

// EnvVar is one entry of the generated .env file
type EnvVar struct {
	Key   string
	Value string
}

// DotEnvParams is the input of CreateServerDotEnv
type DotEnvParams struct {
	EnvVariables []EnvVar
}

// Manifest is a set of go.mod updates. Updates are deep-merged, so a later
// update replaces the version of a module an earlier one required.
type Manifest struct {
	Require map[string]string
	Replace map[string]string
}

// GoModParams is the input of CreateServerGoMod
type GoModParams struct {
	UpdateProperties []Manifest
}

// DockerComposeParams is the input of CreateServerDockerComposeDev. Each
// update is a compose document fragment deep-merged over the base file in
// order.
type DockerComposeParams struct {
	UpdateProperties []map[string]any
}

// MessageBrokerParams is the input of CreateMessageBroker
type MessageBrokerParams struct{}

// TopicsEnumParams is the input of CreateMessageBrokerTopicsEnum
type TopicsEnumParams struct {
	// FileName is the name of the generated topics file inside the broker directory
	FileName string
}

// ClientOptionsFactoryParams is the input of CreateMessageBrokerClientOptionsFactory
type ClientOptionsFactoryParams struct{}

// BrokerModuleParams is the input of CreateMessageBrokerModule
type BrokerModuleParams struct{}

// BrokerServiceParams is the input of CreateMessageBrokerService
type BrokerServiceParams struct{}

// AppModuleParams is the input of CreateServerAppModule.
//
// TemplateMapping is applied to the app template; its "MODULES" entry is
// the list of modules the service starts. Imports are added to the app
// module for packages the mapping refers to. ModuleFiles are written
// alongside the app module.
type AppModuleParams struct {
	TemplateMapping scaffold.Mapping
	Imports         []string
	ModuleFiles     *modules.Map
}
