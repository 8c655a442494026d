// Package scene turns the sticker store into drawable nodes and rasterises
// them onto a fixed-size surface.
//
// Drag emphasis lives only here: a DragState tracks the sticker under the
// cursor and its live position, and Nodes applies the enlarged, translucent,
// heavily shadowed styling to that one node. The store is not touched until
// the drag ends.
//
// A Scene is the surface. Sync stages the nodes to show, Redraw commits them
// as the current frame, and Encode rasterises the committed frame to PNG at a
// pixel-density multiplier.
package scene
