package detect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretide/codearmor/internal/detect"
	"github.com/coretide/codearmor/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		desc types.Descriptor
		want types.ProjectType
	}{
		{
			name: "java files only",
			desc: types.Descriptor{Name: "lib", HasJavaFiles: true},
			want: types.JavaLibrary,
		},
		{
			name: "java and kotlin files with application marker",
			desc: types.Descriptor{Name: "shop", HasJavaFiles: true, HasKotlinFiles: true, Capabilities: types.Capabilities{Application: true}},
			want: types.MixedApplication,
		},
		{
			name: "kotlin plugin with java files is mixed",
			desc: types.Descriptor{Name: "lib", HasJavaFiles: true, Capabilities: types.Capabilities{Kotlin: true}},
			want: types.MixedLibrary,
		},
		{
			name: "java plugin with kotlin files is mixed",
			desc: types.Descriptor{Name: "lib", HasKotlinFiles: true, Capabilities: types.Capabilities{JavaLibrary: true}},
			want: types.MixedLibrary,
		},
		{
			name: "kotlin plugin only",
			desc: types.Descriptor{Name: "lib", Capabilities: types.Capabilities{Kotlin: true}},
			want: types.KotlinLibrary,
		},
		{
			name: "kotlin files with spring boot",
			desc: types.Descriptor{Name: "api", HasKotlinFiles: true, Capabilities: types.Capabilities{SpringBoot: true}},
			want: types.KotlinApplication,
		},
		{
			name: "java plugin with service suffix",
			desc: types.Descriptor{Name: "billing-service", Capabilities: types.Capabilities{Java: true}},
			want: types.JavaApplication,
		},
		{
			name: "application plugin is a java signal",
			desc: types.Descriptor{Name: "tool", Capabilities: types.Capabilities{Application: true}},
			want: types.JavaApplication,
		},
		{
			name: "no signal defaults to java library",
			desc: types.Descriptor{Name: "empty"},
			want: types.JavaLibrary,
		},
		{
			name: "no language signal ignores application suffix",
			desc: types.Descriptor{Name: "web-app", Capabilities: types.Capabilities{SpringBoot: true}},
			want: types.JavaLibrary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.Classify(tt.desc))
		})
	}
}

func TestClassify_MixedRegardlessOfSignalSource(t *testing.T) {
	for _, kotlinByPlugin := range []bool{true, false} {
		for _, javaByPlugin := range []bool{true, false} {
			d := types.Descriptor{Name: "x"}
			if kotlinByPlugin {
				d.Capabilities.Kotlin = true
			} else {
				d.HasKotlinFiles = true
			}
			if javaByPlugin {
				d.Capabilities.Java = true
			} else {
				d.HasJavaFiles = true
			}
			pt := detect.Classify(d)
			assert.True(t, pt == types.MixedLibrary || pt == types.MixedApplication, "got %s", pt)
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	d := types.Descriptor{Name: "orders-app", HasKotlinFiles: true, Capabilities: types.Capabilities{Java: true}}
	assert.Equal(t, detect.Classify(d), detect.Classify(d))
}

func TestNeedsCheckstyle(t *testing.T) {
	want := map[types.ProjectType]bool{
		types.JavaApplication:   true,
		types.JavaLibrary:       true,
		types.KotlinApplication: false,
		types.KotlinLibrary:     false,
		types.MixedApplication:  true,
		types.MixedLibrary:      true,
	}
	for pt, needs := range want {
		assert.Equal(t, needs, detect.NeedsCheckstyle(pt), string(pt))
	}
}

func TestIsMultiModule(t *testing.T) {
	assert.False(t, detect.IsMultiModule(detect.Settings{}))
	assert.True(t, detect.IsMultiModule(detect.Settings{Includes: []string{"bom"}}))
}
