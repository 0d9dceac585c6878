package tagsource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
series:
  - tags:
      name: requests
      region: us-east
    start: 0
    step: 1000
    values: [1, 2, 3]
  - tags:
      name: requests
      region: eu-west
    start: 0
    step: 1000
    values: [4, 5, 6]
`

func TestLoadParsesFixtureIntoStaticIndex(t *testing.T) {
	idx, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	keys := idx.AllTagKeys()
	require.ElementsMatch(t, []string{"name", "region"}, keys)
}

func TestLoadRejectsMisalignedStep(t *testing.T) {
	_, err := Load([]byte(`
series:
  - tags: {name: bad}
    start: 500
    step: 1000
    values: [1]
`))
	require.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/fixture.yaml")
	require.Error(t, err)
}
