// Package patch toggles named binary features inside executable modules by
// overwriting short byte sequences at fixed offsets.
//
// # Overview
//
// A rule declares which bytes a feature occupies in each of its states. The
// package classifies the live bytes of a file against those declarations and
// rewrites them on request. It never inspects instructions; it only compares
// and overwrites raw byte windows at declared offsets.
//
// # Rule Kinds
//
//   - Toggle: an independent on/off switch made of one or more entries. Each
//     entry holds an offset plus the on and off bytes for that offset.
//   - Union: a mutually exclusive choice. All choices share one offset and
//     one byte length; the live bytes select at most one of them.
//
// # Key Types
//
//   - Spec: an immutable, already-parsed rule record
//   - Toggle, Union: rules bound to the bytes of one file
//   - State: the classification of a rule (on, off, matched choice, unknown)
//   - Target: one opened file and the rules that apply to it
//   - Set: all targets of a session
//
// # Usage
//
//	set, err := patch.Open(dir, files, patch.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer set.Close()
//
//	if problems := set.ValidateAll(); len(problems) > 0 {
//	    // surface every unrecognized rule at once
//	}
//
//	t, _ := set.Target("game")
//	toggle, _ := t.Toggle("Disable timer")
//	err = toggle.Apply(true)
//
// # Durability
//
// Every write is flushed to disk before it returns. There is no backup and
// no rollback: if a multi-entry toggle fails partway the file is left mixed
// and the error says so (see types.ErrPartial).
//
// # Thread Safety
//
// None of the types are safe for concurrent use. Callers issue one classify
// or apply at a time.
package patch
