// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

// tentativeMutators is the set of entry points whose stated purpose is to
// mutate observable state (spec.md §4.3 step 3): setters, enable/disable,
// transport controls, queue/unqueue, doppler/speed/distance globals, and
// context suspend/resume/makeCurrent. A call in this set starts out
// InefficientStateChange = true; StateBuilder.StateChanged (builder.go)
// flips it back to false the moment a matching `*_STATE_CHANGED_*` meta
// event confirms the recorder actually observed a change.
var tentativeMutators = map[string]bool{
	"alSourcef":              true,
	"alSource3f":             true,
	"alSourcei":              true,
	"alListenerf":            true,
	"alListener3f":           true,
	"alListenerfv":           true,
	"alSourcePlay":           true,
	"alSourcePause":          true,
	"alSourceStop":           true,
	"alSourceRewind":         true,
	"alSourceQueueBuffers":   true,
	"alSourceUnqueueBuffers": true,
	"alDopplerFactor":        true,
	"alDistanceModel":        true,
	"alcSuspendContext":      true,
	"alcProcessContext":      true,
	"alcMakeContextCurrent":  true,
}
