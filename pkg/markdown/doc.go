// Package markdown embeds c4x diagrams in markdown documents.
//
// Diagrams are written as fenced code blocks whose info string starts with
// "c4x":
//
//	```c4x
//	graph LR
//	User[User<br/>Person]
//	Shop[Shop<br/>Software System]
//	User -->|Buys from| Shop
//	```
//
// [Render] rewrites a markdown document in place, replacing each diagram
// block with inline SVG and leaving everything else untouched. A diagram
// that fails to compile becomes a ```c4x-error block:
//
//	```c4x-error
//	6:1: relationship references unknown element "Ghost"
//	```
//
// [ToHTML] converts the whole document to HTML with goldmark, rendering
// diagram blocks the same way. [Page] wraps the fragment into a standalone
// page.
//
// Each block's SVG gets its own id prefix (c4x0-, c4x1-, ...) so markers and
// filters of several diagrams on one page never collide.
package markdown
