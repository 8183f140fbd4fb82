package protocol

// This package implements parsing and serialising for the typed command
// set exchanged between voxel game clients and servers.
//
// - `Command` - One typed protocol message. Each command knows its
//               numeric id, its direction, and the channel and
//               reliability it is sent with by default.
// - `ToServer*` - Commands sent by clients (movement, chat, inventory
//                 actions, media requests, auth exchanges).
// - `ToClient*` - Commands sent by servers (world data, definitions,
//                 media, HUD and sky state, auth replies).
// - `Unknown`  - Any command this engine has no typed decoder for. The
//                body is preserved verbatim so it re-serializes byte
//                for byte.
//
// === Wire form
//
// A serialized command is a big-endian u16 command id followed by the
// command body. The two directions have independent id spaces: 0x40 is
// a media request travelling to the server and a sound stop request
// travelling to the client.
//
// Bodies are fixed field sequences with no per-field tags. Strings are
// u16 length-prefixed bytes, long strings u32 length-prefixed, wide
// strings a u16 count of big-endian UTF-16 code units. A field marked
// optional may only sit at the tail of a command: it is present exactly
// when bytes remain, which is how the protocol grew new fields without
// a version bump.
//
// === Deep payloads
//
// A handful of commands carry payloads with their own heavyweight
// serializers in the game engine proper: map block contents, inventory
// trees, item and node definition databases. Those travel here as
// opaque byte fields (zlib-wrapped where the protocol compresses them)
// and round-trip exactly; interpreting them is out of scope for the
// transport.
