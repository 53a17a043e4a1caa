package templates

// CSStempl styles the report index page
var CSStempl = []byte(`body {
  margin: 0;
  color: #333;
  font-family: 'Lucida Sans', Arial, sans-serif;
  font-size: 16px;
}

h1 {
  font-family: 'Lato', sans-serif;
  font-size: 32px;
  font-weight: 300;
  margin: 24px 30px;
}

ul {
  list-style-type: none;
  margin: 0;
  padding: 0;
  overflow: hidden;
  background-color: #000;
}

li {
  float: left;
}

li a {
  display: block;
  color: white;
  padding: 14px 16px;
  text-decoration: none;
}

li a:hover {
  background-color: #34C6CD;
}

.info {
  margin: 10px 0;
  padding: 12px 30px;
  line-height: 26px;
  color: white;
  background-color: #333;
}

.container {
  overflow-x: auto;
}

table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  text-align: left;
  padding: 8px;
}

tr:nth-child(even) {
  background-color: #f2f2f2;
}

tr.failed {
  background-color: #A66F00;
  color: white;
}
`)
