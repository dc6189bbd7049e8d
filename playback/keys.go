// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import "fmt"

// Trie keys are hierarchical URI-like strings (spec.md §4.3 / §6):
//
//	global://<field>
//	device://<device-handle>/<field>
//	context://<context-handle>/<field>
//	source://<context-handle>/<source-name>/<field>
//	buffer://<device-handle>/<buffer-name>/<field>
//
// Handles print as decimal rather than hex: they are opaque identity keys,
// never addresses a human needs to read off in hex.

func globalKey(field string) string {
	return "global://" + field
}

func numberedGlobalKey(field string, i int) string {
	return fmt.Sprintf("global://%s/%d", field, i)
}

func deviceKey(device DeviceHandle, field string) string {
	return fmt.Sprintf("device://%d/%s", device, field)
}

func contextKey(ctx ContextHandle, field string) string {
	return fmt.Sprintf("context://%d/%s", ctx, field)
}

func numberedContextKey(ctx ContextHandle, field string, i int) string {
	return fmt.Sprintf("context://%d/%s/%d", ctx, field, i)
}

func sourceKey(ctx ContextHandle, name SourceName, field string) string {
	return fmt.Sprintf("source://%d/%d/%s", ctx, name, field)
}

func numberedSourceKey(ctx ContextHandle, name SourceName, field string, i int) string {
	return fmt.Sprintf("source://%d/%d/%s/%d", ctx, name, field, i)
}

func bufferKey(device DeviceHandle, name BufferName, field string) string {
	return fmt.Sprintf("buffer://%d/%d/%s", device, name, field)
}
