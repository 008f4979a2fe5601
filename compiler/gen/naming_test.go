package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Username", "username"},
		{"FullName", "full_name"},
		{"HTTPCode", "http_code"},
		{"UserID", "user_id"},
		{"XMLParser", "xml_parser"},
		{"getHTTPResponse", "get_http_response"},
		{"already_snake", "already_snake"},
		{"A", "a"},
		{"AB", "ab"},
		{"", ""},
		{"PHBOrg", "phb_org"},
		{"UserIDs", "user_ids"},
		{"InterestForUser", "interest_for_user"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snake(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"user_id", "UserID"},
		{"date_created", "DateCreated"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"a", "A"},
		{"ab", "Ab"},
		{"a_b", "AB"},
		{"api_url", "APIURL"},
		{"InterestForUser", "InterestForUser"},
		{"dateCreated", "DateCreated"},
		{"_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "userInfo"},
		{"user_id", "userID"},
		{"id", "id"},
		{"http_code", "httpCode"},
		{"full-admin", "fullAdmin"},
		{"UserName", "userName"},
		{"a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, camel(tt.input))
		})
	}
}

func TestParam(t *testing.T) {
	assert.Equal(t, "username", param("username"))
	assert.Equal(t, "type_", param("type"))
	assert.Equal(t, "range_", param("range"))
	assert.Equal(t, "funcName", param("func_name"))
}

func TestReceiver(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "u"},
		{"UserQuery", "uq"},
		{"[]User", "u"},
		{"*User", "u"},
		{"HTTPClient", "hc"},
		{"InterestForUser", "ifu"},
		{"A", "a"},
		{"Go", "g"},
		{"Fmt", "f"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, receiver(tt.input))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "Users", plural("User"))
	assert.Equal(t, "Categories", plural("Category"))
	assert.Equal(t, "InterestForUsers", plural("InterestForUser"))
}

func TestAddAcronym(t *testing.T) {
	assert.Equal(t, "GeoLat", pascal("geo_lat"))
	AddAcronym("geo")
	t.Cleanup(func() { delete(acronyms, "GEO") })
	assert.Equal(t, "GEOLat", pascal("geo_lat"))
	assert.Equal(t, "geoLat", camel("geo_lat"))
}
