package cloudformation

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsautoscaling"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/avelichko/fleetboard/internal/pkg/ptr"
)

func NewStack(scope constructs.Construct, id string, cfg Config, props *awscdk.StackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, &id, props)

	vpc := awsec2.NewVpc(stack, ptr.Of("Vpc"), &awsec2.VpcProps{
		MaxAzs: jsii.Number(2),
	})

	cluster := awsecs.NewCluster(stack, ptr.Of("Cluster"), &awsecs.ClusterProps{
		Vpc: vpc,
	})

	autoScalingGroup := awsautoscaling.NewAutoScalingGroup(stack, ptr.Of("ClusterCapacity"), &awsautoscaling.AutoScalingGroupProps{
		Vpc:          vpc,
		InstanceType: awsec2.NewInstanceType(ptr.Of(cfg.InstanceType)),
		MachineImage: awsecs.EcsOptimizedImage_AmazonLinux2(awsecs.AmiHardwareType_STANDARD, nil),
		MinCapacity:  jsii.Number(float64(cfg.MinCapacity)),
		MaxCapacity:  jsii.Number(float64(cfg.MaxCapacity)),
	})

	capacityProvider := awsecs.NewAsgCapacityProvider(stack, ptr.Of("CapacityProvider"), &awsecs.AsgCapacityProviderProps{
		AutoScalingGroup:                   autoScalingGroup,
		EnableManagedScaling:               ptr.Of(true),
		EnableManagedTerminationProtection: ptr.Of(false),
	})
	cluster.AddAsgCapacityProvider(capacityProvider, nil)

	taskDefinition := awsecs.NewEc2TaskDefinition(stack, ptr.Of("TaskDefinition"), &awsecs.Ec2TaskDefinitionProps{
		NetworkMode: awsecs.NetworkMode_BRIDGE,
	})

	container := taskDefinition.AddContainer(ptr.Of("web"), &awsecs.ContainerDefinitionOptions{
		Image:          awsecs.ContainerImage_FromAsset(ptr.Of(cfg.ImageDirectory), nil),
		MemoryLimitMiB: jsii.Number(float64(cfg.ContainerMemoryMiB)),
		Logging: awsecs.LogDriver_AwsLogs(&awsecs.AwsLogDriverProps{
			StreamPrefix: ptr.Of("web"),
		}),
	})
	container.AddPortMappings(&awsecs.PortMapping{
		ContainerPort: jsii.Number(float64(cfg.ContainerPort)),
		Protocol:      awsecs.Protocol_TCP,
	})

	service := awsecs.NewEc2Service(stack, ptr.Of("Service"), &awsecs.Ec2ServiceProps{
		Cluster:        cluster,
		TaskDefinition: taskDefinition,
		DesiredCount:   jsii.Number(float64(cfg.DesiredCount)),
		CapacityProviderStrategies: &[]*awsecs.CapacityProviderStrategy{
			{
				CapacityProvider: capacityProvider.CapacityProviderName(),
				Weight:           jsii.Number(1),
			},
		},
	})

	certificate := awscertificatemanager.Certificate_FromCertificateArn(
		stack,
		ptr.Of("Certificate"),
		ptr.Of(cfg.CertificateArn),
	)

	loadBalancer := awselasticloadbalancingv2.NewApplicationLoadBalancer(stack, ptr.Of("LoadBalancer"), &awselasticloadbalancingv2.ApplicationLoadBalancerProps{
		Vpc:            vpc,
		InternetFacing: ptr.Of(true),
	})

	loadBalancer.AddListener(ptr.Of("HttpListener"), &awselasticloadbalancingv2.BaseApplicationListenerProps{
		Port: jsii.Number(80),
		Open: ptr.Of(true),
		DefaultAction: awselasticloadbalancingv2.ListenerAction_Redirect(&awselasticloadbalancingv2.RedirectOptions{
			Port:      ptr.Of("443"),
			Protocol:  ptr.Of("HTTPS"),
			Permanent: ptr.Of(true),
		}),
	})

	httpsListener := loadBalancer.AddListener(ptr.Of("HttpsListener"), &awselasticloadbalancingv2.BaseApplicationListenerProps{
		Port: jsii.Number(443),
		Open: ptr.Of(true),
		Certificates: &[]awselasticloadbalancingv2.IListenerCertificate{
			awselasticloadbalancingv2.ListenerCertificate_FromCertificateManager(certificate),
		},
	})

	httpsListener.AddTargets(ptr.Of("WebTarget"), &awselasticloadbalancingv2.AddApplicationTargetsProps{
		Port:     jsii.Number(float64(cfg.ContainerPort)),
		Protocol: awselasticloadbalancingv2.ApplicationProtocol_HTTP,
		Targets: &[]awselasticloadbalancingv2.IApplicationLoadBalancerTarget{
			service,
		},
		HealthCheck: &awselasticloadbalancingv2.HealthCheck{
			Path:             ptr.Of("/healthz"),
			HealthyHttpCodes: ptr.Of("200"),
			Interval:         awscdk.Duration_Seconds(jsii.Number(30)),
		},
	})

	// Bridge networking publishes tasks on ephemeral host ports.
	autoScalingGroup.Connections().AllowFrom(
		loadBalancer,
		awsec2.Port_TcpRange(jsii.Number(32768), jsii.Number(65535)),
		ptr.Of("Load balancer to ECS host ports"),
	)

	hostedZone := awsroute53.HostedZone_FromLookup(stack, ptr.Of("HostedZone"), &awsroute53.HostedZoneProviderProps{
		DomainName: ptr.Of(cfg.HostedZoneName),
	})

	awsroute53.NewARecord(stack, ptr.Of("AliasRecord"), &awsroute53.ARecordProps{
		Zone:       hostedZone,
		RecordName: ptr.Of(cfg.DomainName),
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewLoadBalancerTarget(loadBalancer)),
	})

	awscdk.NewCfnOutput(stack, ptr.Of("LoadBalancerDNS"), &awscdk.CfnOutputProps{
		Value: loadBalancer.LoadBalancerDnsName(),
	})
	awscdk.NewCfnOutput(stack, ptr.Of("ServiceURL"), &awscdk.CfnOutputProps{
		Value: ptr.Of("https://" + cfg.DomainName),
	})

	return stack
}
