/*
Package hashring implements consistent hashing hashring data structure.

Consistent hashing maps objects from a very big set of values (e.g. cache
keys) to objects from a quite small set (e.g. server addresses) such that
adding or removing a server relocates only the keys which really need to move.
The mapping is "consistent" because different machines or processes holding
the same set of targets agree on it without any state exchange.

Each target is placed on the ring multiple times. For a target T added with
weight w to a ring having r replicas, positions are computed by hashing the
strings T+"0", T+"1", ..., T+strconv.Itoa(r*w-1). Resources are hashed the same
way and served by the first target found clockwise from the resource position,
wrapping around the ring end.

Hash collisions between points are resolved in favor of the most recently
placed point. Removal of a target never clears a point that was taken over by
another target.

Read operations never block each other. Write operations prepare a new
version of the ring aside and then swap it in, so readers are blocked only for
the time needed to swap the pointer.
*/
package hashring
