// Package navigation models a hierarchical navigation menu.
//
// A menu is a tree of ItemContainers. Each container holds an ordered list
// of Items for one nesting level, and each Item may own a sub-container one
// level deeper. Trees are built once from a declarative description and are
// read-only afterwards, so a single tree can serve many requests at once.
//
// Which item is active is never stored on the tree. It is resolved for every
// request from a CurrentNavigation source, usually a *Request, that knows the
// current navigation key for each level:
//
//	root := navigation.NewItemContainer(nil)
//	_ = root.Item("home", "Home", "/", nil, nil)
//	_ = root.Item("books", "Books", "/books", nil, func(sub *navigation.ItemContainer) error {
//		return sub.Item("fiction", "Fiction", "/books/fiction", nil, nil)
//	})
//
//	req := navigation.NewRequest("/books/fiction")
//	if err := navigation.HandleExplicitNavigation(root, req, navigation.ExplicitKey("fiction")); err != nil {
//		return err
//	}
//
//	root.SelectedItem(req) // books, because it contains fiction
package navigation
