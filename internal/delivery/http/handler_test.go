package http

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/ceylonhoney/storefront/internal/domain"
)

func TestParseBrowseRequestFilterValues(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   domain.FilterState
	}{
		{
			name:   "single value is split on commas",
			values: url.Values{"type": {"Wild, Syrup"}},
			want:   domain.FilterState{domain.DimensionType: {"Wild", "Syrup"}},
		},
		{
			name:   "repeated values keep their commas",
			values: url.Values{"origin": {"Galle, Southern", "Kandy"}},
			want:   domain.FilterState{domain.DimensionOrigin: {"Galle, Southern", "Kandy"}},
		},
		{
			name:   "blank values are dropped",
			values: url.Values{"color": {" ", "Dark"}, "type": {",,"}},
			want:   domain.FilterState{domain.DimensionColor: {"Dark"}},
		},
		{
			name:   "reserved parameters are not filters",
			values: url.Values{"q": {"honey"}, "view": {"list"}, "Origin": {"Galle"}},
			want:   domain.FilterState{domain.DimensionOrigin: {"Galle"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := parseBrowseRequest(tt.values)
			if err != nil {
				t.Fatalf("parseBrowseRequest() error = %v", err)
			}
			if !reflect.DeepEqual(request.Filters, tt.want) {
				t.Errorf("Filters = %v, want %v", request.Filters, tt.want)
			}
		})
	}
}
