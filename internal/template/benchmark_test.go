package template

import (
	"fmt"
	"testing"

	"github.com/miztiik/simple-eks-cluster/intrinsics"
	"github.com/miztiik/simple-eks-cluster/resources/ec2"
)

// BenchmarkBuild benchmarks building templates with varying subnet counts.
func BenchmarkBuild(b *testing.B) {
	sizes := []int{10, 50, 100, 200}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("subnets_%d", size), func(b *testing.B) {
			builder := generateNetwork(b, size)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := builder.Build(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkToJSON benchmarks JSON serialization with varying subnet counts.
func BenchmarkToJSON(b *testing.B) {
	sizes := []int{10, 50, 100}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("subnets_%d", size), func(b *testing.B) {
			tmpl, err := generateNetwork(b, size).Build()
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := ToJSON(tmpl); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// generateNetwork declares a VPC with n subnets, each with its own route
// table association.
func generateNetwork(b *testing.B, n int) *Builder {
	b.Helper()
	builder := NewBuilder("benchmark")
	must := func(err error) {
		if err != nil {
			b.Fatal(err)
		}
	}

	must(builder.Add("Vpc", ec2.VPC{CidrBlock: "10.0.0.0/8"}))
	must(builder.Add("RouteTable", ec2.RouteTable{VpcId: intrinsics.Ref{LogicalName: "Vpc"}}))
	for i := 0; i < n; i++ {
		subnet := fmt.Sprintf("Subnet%d", i)
		must(builder.Add(subnet, ec2.Subnet{
			VpcId:            intrinsics.Ref{LogicalName: "Vpc"},
			CidrBlock:        fmt.Sprintf("10.%d.%d.0/24", i/256, i%256),
			AvailabilityZone: intrinsics.Select{Index: i % 2, List: intrinsics.GetAZs{}},
			Tags:             intrinsics.Tags(map[string]string{"Name": subnet}),
		}))
		must(builder.Add(subnet+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			RouteTableId: intrinsics.Ref{LogicalName: "RouteTable"},
			SubnetId:     intrinsics.Ref{LogicalName: subnet},
		}))
	}
	return builder
}
