// Package config loads the stack configuration: built-in defaults, then an
// optional YAML file, then SIMPLE_EKS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/miztiik/simple-eks-cluster/model"
)

// EnvPrefix prefixes every environment override, e.g. SIMPLE_EKS_CLUSTER_VERSION.
const EnvPrefix = "SIMPLE_EKS"

// Capacity strategy names accepted in capacity.strategy.
const (
	StrategyOnDemand   = string(model.CapacityKindOnDemand)
	StrategySpot       = string(model.CapacityKindSpot)
	StrategyServerless = string(model.CapacityKindServerless)
)

// Config is the full stack configuration.
type Config struct {
	Project  ProjectConfig     `yaml:"project"`
	LogLevel string            `yaml:"log_level" split_words:"true"`
	Tags     map[string]string `yaml:"tags"`
	Network  NetworkConfig     `yaml:"network"`
	Cluster  ClusterConfig     `yaml:"cluster"`
	Capacity CapacityConfig    `yaml:"capacity"`
	Outputs  OutputsConfig     `yaml:"outputs"`
}

// ProjectConfig identifies the automation.
type ProjectConfig struct {
	Owner         string   `yaml:"owner"`
	RepoName      string   `yaml:"repo_name" split_words:"true"`
	SourceInfo    string   `yaml:"source_info" split_words:"true"`
	Version       string   `yaml:"version"`
	SupportEmails []string `yaml:"support_emails" split_words:"true"`
}

// NetworkConfig describes the VPC stack. Subnet CIDRs are listed per zone:
// the i-th public and i-th private subnet share availability zone i.
type NetworkConfig struct {
	StackName      string   `yaml:"stack_name" split_words:"true"`
	Description    string   `yaml:"description"`
	CIDR           string   `yaml:"cidr" envconfig:"CIDR"`
	PublicSubnets  []string `yaml:"public_subnets" split_words:"true"`
	PrivateSubnets []string `yaml:"private_subnets" split_words:"true"`
	NATGateways    int      `yaml:"nat_gateways" envconfig:"NAT_GATEWAYS"`
}

// ClusterConfig describes the EKS control plane stack.
type ClusterConfig struct {
	StackName       string   `yaml:"stack_name" split_words:"true"`
	Description     string   `yaml:"description"`
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	EndpointAccess  string   `yaml:"endpoint_access" split_words:"true"`
	DefaultCapacity int      `yaml:"default_capacity" split_words:"true"`
	Placement       []string `yaml:"placement"`
}

// CapacityConfig selects and shapes the worker capacity.
type CapacityConfig struct {
	Strategy string          `yaml:"strategy"`
	OnDemand NodeGroupConfig `yaml:"on_demand" split_words:"true"`
	Spot     NodeGroupConfig `yaml:"spot"`
	Fargate  FargateConfig   `yaml:"fargate"`
}

// NodeGroupConfig shapes a managed node group.
type NodeGroupConfig struct {
	Name          string            `yaml:"name"`
	InstanceTypes []string          `yaml:"instance_types" split_words:"true"`
	DiskSize      int               `yaml:"disk_size" split_words:"true"`
	MinSize       int               `yaml:"min_size" split_words:"true"`
	DesiredSize   int               `yaml:"desired_size" split_words:"true"`
	MaxSize       int               `yaml:"max_size" split_words:"true"`
	Labels        map[string]string `yaml:"labels"`
	Placement     []string          `yaml:"placement"`
	AMIType       string            `yaml:"ami_type" envconfig:"AMI_TYPE"`
}

// FargateConfig shapes the Fargate profile of the serverless strategy.
type FargateConfig struct {
	Name      string           `yaml:"name"`
	Selectors []SelectorConfig `yaml:"selectors" ignored:"true"`
}

// SelectorConfig matches pods onto Fargate.
type SelectorConfig struct {
	Namespace string            `yaml:"namespace"`
	Labels    map[string]string `yaml:"labels"`
}

// OutputsConfig toggles the optional stack outputs.
type OutputsConfig struct {
	ServiceRoleName bool `yaml:"service_role_name" split_words:"true"`
	OIDCIssuer      bool `yaml:"oidc_issuer" envconfig:"OIDC_ISSUER"`
}

// Default returns the configuration of the reference deployment.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Owner:         "MystiqueAutomation",
			RepoName:      "simple-eks-cluster",
			SourceInfo:    "https://github.com/miztiik/simple-eks-cluster",
			Version:       "2021-04-25",
			SupportEmails: []string{"mystique@example.com"},
		},
		LogLevel: "info",
		Network: NetworkConfig{
			StackName:      "eks-cluster-vpc-stack",
			Description:    "VPC for the simple-eks-cluster EKS cluster",
			CIDR:           "10.10.0.0/16",
			PublicSubnets:  []string{"10.10.0.0/24", "10.10.1.0/24"},
			PrivateSubnets: []string{"10.10.2.0/24", "10.10.3.0/24"},
			NATGateways:    1,
		},
		Cluster: ClusterConfig{
			StackName:      "eks-cluster-stack",
			Description:    "EKS cluster with one managed capacity strategy",
			Name:           "1_cdk_c",
			Version:        model.DefaultVersion,
			EndpointAccess: string(model.EndpointPublic),
			Placement:      []string{string(model.SubnetPublic), string(model.SubnetPrivate)},
		},
		Capacity: CapacityConfig{
			Strategy: StrategyOnDemand,
			OnDemand: NodeGroupConfig{
				Name:          "1_cdk_c_n_g",
				InstanceTypes: []string{"t3.medium", "t3.large"},
				DiskSize:      20,
				MinSize:       1,
				DesiredSize:   2,
				MaxSize:       6,
				Placement:     []string{string(model.SubnetPublic)},
				AMIType:       string(model.AMIAL2x86),
			},
			Spot: NodeGroupConfig{
				Name:          "1_cdk_c_spot_n_g",
				InstanceTypes: []string{"t3.medium", "t3.large"},
				DiskSize:      20,
				MinSize:       1,
				DesiredSize:   2,
				MaxSize:       6,
				Placement:     []string{string(model.SubnetPrivate)},
				AMIType:       string(model.AMIAL2x86),
			},
			Fargate: FargateConfig{
				Name: "miztiik_n_g_fargate",
				Selectors: []SelectorConfig{{
					Namespace: "miztiik_ns",
					Labels:    map[string]string{"fargate": "enabled"},
				}},
			},
		},
	}
}

// applyMapDefaults fills maps left unset by the file. Maps are not part of
// Default because YAML decoding merges into an existing map instead of
// replacing it.
func (c *Config) applyMapDefaults() {
	if c.Tags == nil {
		c.Tags = map[string]string{
			"Owner":   c.Project.Owner,
			"Project": c.Project.RepoName,
		}
	}
	if c.Capacity.OnDemand.Labels == nil {
		c.Capacity.OnDemand.Labels = map[string]string{"app": "miztiik_ng", "lifecycle": "on_demand"}
	}
	if c.Capacity.Spot.Labels == nil {
		c.Capacity.Spot.Labels = map[string]string{"app": "miztiik_ng", "lifecycle": "spot"}
	}
}

// Load reads the configuration at path and applies environment overrides.
// An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		defer f.Close()

		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.applyMapDefaults()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration-level constraints. Model invariants are
// checked again when the stacks are built.
func (c *Config) Validate() error {
	var errs field.ErrorList

	strategies := []string{StrategyOnDemand, StrategySpot, StrategyServerless}
	if !contains(strategies, c.Capacity.Strategy) {
		errs = append(errs, field.NotSupported(field.NewPath("capacity", "strategy"), c.Capacity.Strategy, strategies))
	}

	access := []string{string(model.EndpointPublic), string(model.EndpointPrivate), string(model.EndpointPublicAndPrivate)}
	if !contains(access, c.Cluster.EndpointAccess) {
		errs = append(errs, field.NotSupported(field.NewPath("cluster", "endpoint_access"), c.Cluster.EndpointAccess, access))
	}

	net := field.NewPath("network")
	if len(c.Network.PublicSubnets) != len(c.Network.PrivateSubnets) {
		errs = append(errs, field.Invalid(net.Child("private_subnets"), len(c.Network.PrivateSubnets),
			fmt.Sprintf("must match the number of public subnets (%d)", len(c.Network.PublicSubnets))))
	}

	kinds := []string{string(model.SubnetPublic), string(model.SubnetPrivate)}
	errs = append(errs, validatePlacement(field.NewPath("cluster", "placement"), c.Cluster.Placement, kinds)...)
	errs = append(errs, validatePlacement(field.NewPath("capacity", "on_demand", "placement"), c.Capacity.OnDemand.Placement, kinds)...)
	errs = append(errs, validatePlacement(field.NewPath("capacity", "spot", "placement"), c.Capacity.Spot.Placement, kinds)...)

	return errs.ToAggregate()
}

func validatePlacement(path *field.Path, placement, kinds []string) field.ErrorList {
	var errs field.ErrorList
	for i, p := range placement {
		if !contains(kinds, p) {
			errs = append(errs, field.NotSupported(path.Index(i), p, kinds))
		}
	}
	return errs
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
