// Package config loads patch rule records from YAML or TOML files.
//
// The file maps a target name (the DLL file name without its suffix) to an
// ordered list of rules:
//
//	game:
//	  - name: Skip intro
//	    patches:
//	      - offset: 0x64
//	        on:  [0x90, 0x90]
//	        off: [0xE9, 0x10]
//	  - name: Mode
//	    type: union
//	    offset: 0xC8
//	    patches:
//	      - name: A
//	        bytes: [0x01]
//	      - name: B
//	        bytes: "02"
//
// "true"/"false" are accepted as aliases of "on"/"off" and "patch" as an
// alias of "bytes". Byte lists are integers 0..255 or a hex string. Input
// with a UTF-8 or UTF-16 byte order mark is transcoded first.
//
// Every shape problem is fatal and reported with its location, so a broken
// file never reaches the patch engine.
package config
