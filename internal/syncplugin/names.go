package syncplugin

import (
	"strconv"
	"strings"

	"github.com/moerwald/quartznet/internal/constants"
)

// TriggerNameAllocator produces unique, length-bounded names for the
// plugin's internal scan jobs and triggers. The issued-name set is
// append-only and scoped to one plugin instance; a name is never reused
// while the instance lives.
type TriggerNameAllocator struct {
	prefix string
	issued map[string]struct{}
}

func newTriggerNameAllocator(instanceName string) *TriggerNameAllocator {
	return &TriggerNameAllocator{
		prefix: constants.PluginName + "_" + instanceName,
		issued: make(map[string]struct{}),
	}
}

// Allocate returns a name derived from the base name, unique within this
// allocator and at most constants.MaxTriggerNameLength characters long.
// Colliding names get a numeric suffix, truncating the base portion when
// needed so the suffix still fits exactly within the bound.
func (a *TriggerNameAllocator) Allocate(baseName string) string {
	name := a.prefix + "_" + strings.ReplaceAll(baseName, ".", "_")
	if len(name) > constants.MaxTriggerNameLength {
		name = name[:constants.MaxTriggerNameLength]
	}

	for n := 1; ; n++ {
		if _, taken := a.issued[name]; !taken {
			a.issued[name] = struct{}{}
			return name
		}

		// From the second collision on, strip the previous numeric suffix.
		if n > 1 {
			name = name[:strings.LastIndex(name, "_")]
		}
		suffix := "_" + strconv.Itoa(n)
		if len(name) > constants.MaxTriggerNameLength-len(suffix) {
			name = name[:constants.MaxTriggerNameLength-len(suffix)]
		}
		name += suffix
	}
}
