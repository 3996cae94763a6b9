package optimizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/miztiik/simple-eks-cluster/model"
)

// burstable matches the T-family instance types.
var burstable = regexp.MustCompile(`^t[0-9][a-z]*\.`)

var rules = []Rule{
	{
		ID:         "OPT-EKS-001",
		Category:   CategorySecurity,
		Severity:   SeverityHigh,
		Title:      "Kubernetes API endpoint is only reachable from the internet",
		Suggestion: "Set cluster.endpoint_access to public_and_private or private.",
		Check: func(g *model.Graph) []finding {
			c := g.Cluster()
			if c == nil || c.EndpointAccess != model.EndpointPublic {
				return nil
			}
			return []finding{{c.ID, "Nodes reach the control plane through the public endpoint and the API is open to every address."}}
		},
	},
	{
		ID:         "OPT-EKS-002",
		Category:   CategorySecurity,
		Severity:   SeverityMedium,
		Title:      "Node group runs in public subnets",
		Suggestion: "Place the node group in the private subnets.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, ng := range g.NodeGroups() {
				for _, kind := range ng.Placement {
					if kind == model.SubnetPublic {
						out = append(out, finding{ng.ID, fmt.Sprintf("Node group %s gets public IP addresses on launch.", ng.Name)})
						break
					}
				}
			}
			return out
		},
	},
	{
		ID:         "OPT-IAM-001",
		Category:   CategorySecurity,
		Severity:   SeverityMedium,
		Title:      "Inline policy grants actions on every resource",
		Suggestion: "Scope the statement to the cluster ARN.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, r := range g.Roles() {
				for _, st := range r.Statements {
					if st.Effect == model.Allow && containsString(st.Resources, "*") {
						out = append(out, finding{r.ID, fmt.Sprintf("Statement allows %s on *.", strings.Join(st.Actions, ", "))})
					}
				}
			}
			return out
		},
	},
	{
		ID:         "OPT-IAM-002",
		Category:   CategorySecurity,
		Severity:   SeverityMedium,
		Title:      "Role is assumable by both the account and a service",
		Suggestion: "Split the role so people and instances do not share credentials.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, r := range g.Roles() {
				if !r.TrustsAccountRoot() {
					continue
				}
				for _, p := range r.TrustedBy {
					if p.Kind == model.PrincipalService {
						out = append(out, finding{r.ID, fmt.Sprintf("Any principal of the account and %s can assume the role.", p.Value)})
						break
					}
				}
			}
			return out
		},
	},
	{
		ID:         "OPT-EKS-010",
		Category:   CategoryCost,
		Severity:   SeverityLow,
		Title:      "All worker capacity is on-demand",
		Suggestion: "Use the spot strategy for interruptible workloads.",
		Check: func(g *model.Graph) []finding {
			c, ok := g.Capacity().(model.OnDemandCapacity)
			if !ok || c.NodeGroup == nil {
				return nil
			}
			return []finding{{c.NodeGroup.ID, "Spot capacity is typically much cheaper for stateless workloads."}}
		},
	},
	{
		ID:         "OPT-EKS-020",
		Category:   CategoryPerformance,
		Severity:   SeverityLow,
		Title:      "Node group uses burstable instance types",
		Suggestion: "Prefer m- or c-family instances for sustained load.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, ng := range g.NodeGroups() {
				var types []string
				for _, it := range ng.InstanceTypes {
					if burstable.MatchString(it) {
						types = append(types, it)
					}
				}
				if len(types) > 0 {
					out = append(out, finding{ng.ID, fmt.Sprintf("%s throttle once CPU credits run out.", strings.Join(types, ", "))})
				}
			}
			return out
		},
	},
	{
		ID:         "OPT-VPC-001",
		Category:   CategoryReliability,
		Severity:   SeverityMedium,
		Title:      "Fewer NAT gateways than availability zones",
		Suggestion: "Set network.nat_gateways to the number of zones.",
		Check: func(g *model.Graph) []finding {
			n := g.Network()
			if n == nil || n.NATGateways == 0 || n.NATGateways >= n.Zones() {
				return nil
			}
			return []finding{{n.ID, fmt.Sprintf("%d NAT gateways serve %d zones; losing one zone cuts egress for private subnets elsewhere.", n.NATGateways, n.Zones())}}
		},
	},
	{
		ID:         "OPT-EKS-030",
		Category:   CategoryReliability,
		Severity:   SeverityMedium,
		Title:      "Node group can scale down to a single node",
		Suggestion: "Set the minimum size to at least 2.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, ng := range g.NodeGroups() {
				if ng.Scaling.Min < 2 {
					out = append(out, finding{ng.ID, fmt.Sprintf("Minimum size is %d.", ng.Scaling.Min)})
				}
			}
			return out
		},
	},
	{
		ID:         "OPT-EKS-031",
		Category:   CategoryReliability,
		Severity:   SeverityHigh,
		Title:      "Spot node group has a single instance type",
		Suggestion: "List several instance types of similar size.",
		Check: func(g *model.Graph) []finding {
			var out []finding
			for _, ng := range g.NodeGroups() {
				if ng.CapacityType == model.CapacitySpot && len(ng.InstanceTypes) < 2 {
					out = append(out, finding{ng.ID, "A single spot pool can be reclaimed all at once."})
				}
			}
			return out
		},
	},
}

// Rules returns the rule set.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
