package wpgraphqltest

// schema is the subset of the WPGraphQL schema the front-end queries.
const schema = `
schema {
  query: Query
}

type Query {
  posts(first: Int, after: String, last: Int, before: String, where: PostsWhere): PostConnection!
  postBy(slug: String!): Post
  generalSettings: GeneralSettings!
}

input PostsWhere {
  authorName: String
  categoryId: Int
}

type PostConnection {
  edges: [PostEdge!]!
  pageInfo: PageInfo!
}

type PostEdge {
  cursor: String!
  node: Post!
}

type PageInfo {
  hasNextPage: Boolean!
  hasPreviousPage: Boolean!
  startCursor: String
  endCursor: String
}

type Post {
  id: ID!
  postId: Int!
  slug: String!
  title: String!
  excerpt: String
  content: String
  date: String!
  modified: String!
  isSticky: Boolean!
  author: AuthorEdge
  categories: CategoryConnection
  featuredImage: ImageEdge
}

type AuthorEdge {
  node: User!
}

type User {
  id: ID!
  name: String!
  slug: String!
  avatar: Avatar
}

type Avatar {
  url: String
  width: Int
  height: Int
}

type CategoryConnection {
  edges: [CategoryEdge!]!
}

type CategoryEdge {
  node: Category!
}

type Category {
  id: ID!
  categoryId: Int!
  name: String!
  slug: String!
}

type ImageEdge {
  node: MediaItem!
}

type MediaItem {
  id: ID!
  altText: String
  caption: String
  sourceUrl: String!
  srcSet: String
  sizes: String
}

type GeneralSettings {
  title: String!
  description: String!
  language: String!
}
`
