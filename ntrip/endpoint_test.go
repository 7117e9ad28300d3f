package ntrip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCasterEndpointDefaultsPort(t *testing.T) {
	e, err := ParseCasterEndpoint("http://caster.example.com")
	require.NoError(t, err)
	require.Equal(t, "http", e.Scheme)
	require.Equal(t, "caster.example.com", e.Host)
	require.Equal(t, 2101, e.Port)
}

func TestParseCasterEndpointExplicitPort(t *testing.T) {
	e, err := ParseCasterEndpoint("https://caster.example.com:443")
	require.NoError(t, err)
	require.Equal(t, "https", e.Scheme)
	require.Equal(t, 443, e.Port)
	require.Equal(t, "caster.example.com:443", e.Address())
}

func TestParseCasterEndpointRejectsUnsupportedScheme(t *testing.T) {
	_, err := ParseCasterEndpoint("ftp://caster.example.com")
	require.Error(t, err)
}
