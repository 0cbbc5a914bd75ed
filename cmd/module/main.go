package main

import (
	"go.viam.com/rdk/components/base"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/discovery"
	nimbus "nimbus_remote"
)

func main() {
	// ModularMain can take multiple APIModel arguments, if your module implements multiple models.
	module.ModularMain(
		resource.APIModel{API: base.API, Model: nimbus.SerialBaseModel},
		resource.APIModel{API: discovery.API, Model: nimbus.NimbusDiscoveryModel},
	)
}
