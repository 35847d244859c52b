package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMunicipalityCorrector_Correct(t *testing.T) {
	c := NewMunicipalityCorrector(newFixtureLookup(), testReference(t), zap.NewNop())

	testCases := []struct {
		name         string
		state        ParseState
		expectedCity Region
	}{
		{
			name: "county placeholder",
			state: ParseState{
				Province: Region{Code: "50", Name: "重庆市"},
				City:     Region{Code: "5002", Name: "县"},
			},
			expectedCity: Region{Code: "5000", Name: "重庆市"},
		},
		{
			name: "district placeholder",
			state: ParseState{
				Province: Region{Code: "11", Name: "北京市"},
				City:     Region{Code: "1101", Name: "市辖区"},
			},
			expectedCity: Region{Code: "1100", Name: "北京市"},
		},
		{
			name: "not a municipality",
			state: ParseState{
				Province: Region{Code: "33", Name: "浙江省"},
				City:     Region{Code: "3301", Name: "杭州市"},
			},
			expectedCity: Region{Code: "3301", Name: "杭州市"},
		},
		{
			name: "city unresolved",
			state: ParseState{
				Province: Region{Code: "50", Name: "重庆市"},
			},
			expectedCity: Region{},
		},
		{
			name: "no matching city record",
			state: ParseState{
				Province: Region{Code: "12", Name: "天津市"},
				City:     Region{Code: "1201", Name: "市辖区"},
			},
			expectedCity: Region{Code: "1201", Name: "市辖区"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Correct(context.Background(), tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCity, got.City)
			assert.Equal(t, tc.state.Province, got.Province)
		})
	}
}

func TestMunicipalityCorrector_LookupError(t *testing.T) {
	boom := errors.New("db down")
	lookup := &mockLookup{}
	lookup.On("FindByPrefix", mock.Anything, LevelCity, "50", "重庆市").Return(nil, boom)
	c := NewMunicipalityCorrector(lookup, testReference(t), zap.NewNop())

	_, err := c.Correct(context.Background(), ParseState{
		Province: Region{Code: "50", Name: "重庆市"},
		City:     Region{Code: "5002", Name: "县"},
	})

	assert.ErrorIs(t, err, boom)
}
