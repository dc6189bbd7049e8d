// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

// AL/ALC parameter enum values, as defined by the OpenAL specification
// (al.h/alc.h). The playback core never calls into a real AL
// implementation, but it does need these to translate a traced `param`
// argument into the trie field name spec.md §4.3 lists for it.
const (
	alPitch             = 0x1003
	alPosition          = 0x1004
	alDirection         = 0x1005
	alVelocity          = 0x1006
	alLooping           = 0x1007
	alBuffer            = 0x1009
	alGain              = 0x100A
	alMinGain           = 0x100D
	alMaxGain           = 0x100E
	alOrientation       = 0x100F
	alSourceState       = 0x1010
	alBuffersQueued     = 0x1015
	alBuffersProcessed  = 0x1016
	alSecOffset         = 0x1024
	alSampleOffset      = 0x1025
	alByteOffset        = 0x1026
	alSourceType        = 0x1027
	alConeInnerAngle    = 0x1001
	alConeOuterAngle    = 0x1002
	alConeOuterGain     = 0x1022
	alReferenceDistance = 0x1020
	alRolloffFactor     = 0x1021
	alMaxDistance       = 0x1023
	alSourceRelative    = 0x202
	alDopplerFactor     = 0xC000
	alDopplerVelocity   = 0xC001
	alSpeedOfSound      = 0xC003
	alDistanceModel     = 0xD000
)

var alParamFieldNames = map[uint32]string{
	alPitch:             "AL_PITCH",
	alPosition:          "AL_POSITION",
	alDirection:         "AL_DIRECTION",
	alVelocity:          "AL_VELOCITY",
	alLooping:           "AL_LOOPING",
	alBuffer:            "AL_BUFFER",
	alGain:              "AL_GAIN",
	alMinGain:           "AL_MIN_GAIN",
	alMaxGain:           "AL_MAX_GAIN",
	alOrientation:       "AL_ORIENTATION",
	alSourceState:       "AL_SOURCE_STATE",
	alBuffersQueued:     "AL_BUFFERS_QUEUED",
	alBuffersProcessed:  "AL_BUFFERS_PROCESSED",
	alSecOffset:         "AL_SEC_OFFSET",
	alSampleOffset:      "AL_SAMPLE_OFFSET",
	alByteOffset:        "AL_BYTE_OFFSET",
	alSourceType:        "AL_SOURCE_TYPE",
	alConeInnerAngle:    "AL_CONE_INNER_ANGLE",
	alConeOuterAngle:    "AL_CONE_OUTER_ANGLE",
	alConeOuterGain:     "AL_CONE_OUTER_GAIN",
	alReferenceDistance: "AL_REFERENCE_DISTANCE",
	alRolloffFactor:     "AL_ROLLOFF_FACTOR",
	alMaxDistance:       "AL_MAX_DISTANCE",
	alSourceRelative:    "AL_SOURCE_RELATIVE",
	alDopplerFactor:     "AL_DOPPLER_FACTOR",
	alDopplerVelocity:   "AL_DOPPLER_VELOCITY",
	alSpeedOfSound:      "AL_SPEED_OF_SOUND",
	alDistanceModel:     "AL_DISTANCE_MODEL",
}

// alParamFieldName translates a traced AL parameter enum into the trie
// field name spec.md §4.3 lists for it, falling back to a synthetic name
// for any enum this table doesn't recognize (an unrecognized param is not
// a framing error; it just becomes a raw-looking trie key, still
// queryable, still round-trippable).
func alParamFieldName(param uint32) string {
	if name, ok := alParamFieldNames[param]; ok {
		return name
	}
	return "AL_PARAM_0x" + hex32(param)
}

func hex32(v uint32) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}
