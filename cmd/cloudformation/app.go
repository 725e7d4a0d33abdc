package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/avelichko/fleetboard/internal/pkg/cloudformation"
	"github.com/avelichko/fleetboard/internal/pkg/log"
	"github.com/avelichko/fleetboard/internal/pkg/ptr"
)

func main() {
	defer jsii.Close()

	logger := log.NewLogger()

	cfg, err := cloudformation.LoadConfig()
	if err != nil {
		logger.Fatalf("cloudformation.LoadConfig: %v", err)
	}

	app := awscdk.NewApp(nil)

	cloudformation.NewStack(app, "FleetboardStack", cfg, &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: ptr.Of(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  ptr.Of(os.Getenv("CDK_DEFAULT_REGION")),
		},
	})

	app.Synth(nil)
}
