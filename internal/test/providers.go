package test

import (
	"fmt"

	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/party"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"github.com/taurusgroup/secure-aco/pkg/secret/additive"
	"github.com/taurusgroup/secure-aco/pkg/secret/plain"
)

// Provider is a named provider, for table tests that run against every implementation.
type Provider struct {
	Name string
	secret.ComparingProvider
}

// Providers returns a transparent provider and a seeded three-party additive provider at scale p.
func Providers(p fixedpoint.Scale, seed int64) []Provider {
	transparent, err := plain.New(p)
	if err != nil {
		panic(err)
	}
	shared, err := additive.NewSeeded(party.Numbered(3), p, seed)
	if err != nil {
		panic(fmt.Sprintf("test: additive provider: %v", err))
	}
	return []Provider{
		{Name: "plain", ComparingProvider: transparent},
		{Name: "additive", ComparingProvider: shared},
	}
}
