package wpgraphql

// postFields is shared by every posts query so all of them decode into RawPost.
const postFields = `
fragment PostFields on Post {
  id
  postId
  slug
  title
  excerpt
  date
  modified
  isSticky
  author {
    node {
      id
      name
      slug
      avatar {
        url
        width
        height
      }
    }
  }
  categories {
    edges {
      node {
        id
        categoryId
        name
        slug
      }
    }
  }
  featuredImage {
    node {
      id
      altText
      caption
      sourceUrl
      srcSet
      sizes
    }
  }
}
`

// QueryPaginatedPosts takes $first/$after for forward paging or $last/$before
// for backward paging. The unused pair must be sent as null.
const QueryPaginatedPosts = `
query PaginatedPosts($first: Int, $after: String, $last: Int, $before: String) {
  posts(first: $first, after: $after, last: $last, before: $before) {
    edges {
      node {
        ...PostFields
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}
` + postFields

const QueryAllPosts = `
query AllPosts {
  posts(first: 10000) {
    edges {
      node {
        ...PostFields
      }
    }
  }
}
` + postFields

const QueryPostBySlug = `
query PostBySlug($slug: String!) {
  postBy(slug: $slug) {
    ...PostFields
    content
  }
}
` + postFields

const QueryPostsByAuthorSlug = `
query PostsByAuthorSlug($slug: String!) {
  posts(first: 10000, where: { authorName: $slug }) {
    edges {
      node {
        ...PostFields
      }
    }
  }
}
` + postFields

const QueryPostsByCategoryID = `
query PostsByCategoryId($categoryId: Int!) {
  posts(first: 10000, where: { categoryId: $categoryId }) {
    edges {
      node {
        ...PostFields
      }
    }
  }
}
` + postFields

const QueryGeneralSettings = `
query GeneralSettings {
  generalSettings {
    title
    description
    language
  }
}
`
