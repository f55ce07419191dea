package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEncoding(t *testing.T) {
	assert.Equal(t, EncodingURLQuery, DefaultEncoding("GET"))
	assert.Equal(t, EncodingURLQuery, DefaultEncoding("HEAD"))
	assert.Equal(t, EncodingURLQuery, DefaultEncoding("DELETE"))
	assert.Equal(t, EncodingJSONBody, DefaultEncoding("POST"))
	assert.Equal(t, EncodingJSONBody, DefaultEncoding("PUT"))
	assert.Equal(t, EncodingJSONBody, DefaultEncoding("PATCH"))
}

func TestEncodeQuery_PreservesDeclarationOrderAndPercentEncodes(t *testing.T) {
	query, err := EncodeQuery([]Parameter{
		Scalar("q", "hello world"),
		Scalar("tag", "a/b"),
		Scalar("active", true),
	})
	require.NoError(t, err)

	assert.Equal(t, "q=hello%20world&tag=a%2Fb&active=1", query)
}

func TestEncodeQuery_BoolRendersAsOneOrZero(t *testing.T) {
	query, err := EncodeQuery([]Parameter{Scalar("flag", false)})
	require.NoError(t, err)
	assert.Equal(t, "flag=0", query)
}

func TestEncodeQuery_FloatRendersShortestUnambiguous(t *testing.T) {
	query, err := EncodeQuery([]Parameter{Scalar("price", 3.0), Scalar("rate", 1.5)})
	require.NoError(t, err)
	assert.Equal(t, "price=3&rate=1.5", query)
}

func TestEncodeJSONBody_ScalarsAndBoolsUseJSONTypes(t *testing.T) {
	body, err := EncodeJSONBody([]Parameter{
		Scalar("name", "widget"),
		Scalar("active", true),
		Scalar("count", 3),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"widget","active":true,"count":3}`, string(body))
}

func TestEncodeJSONBody_DuplicateKeysLastWriteWins(t *testing.T) {
	body, err := EncodeJSONBody([]Parameter{
		Scalar("name", "first"),
		Scalar("name", "second"),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"second"}`, string(body))
}

func TestEncodeJSONBody_NestedAndList(t *testing.T) {
	body, err := EncodeJSONBody([]Parameter{
		Nested("address", map[string]any{"city": "NYC"}),
		List("tags", []any{"a", "b"}),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"address":{"city":"NYC"},"tags":["a","b"]}`, string(body))
}
